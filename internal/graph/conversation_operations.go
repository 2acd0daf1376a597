package graph

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// ============================================================================
// Conversation Operations
// ============================================================================

// StoreTurn persists one line of a conversation:
//
//	(u:User)-[:HAS_CONVERSATION]->(c:Conversation)-[:HAS_MESSAGE]->(m:Message)
//
// Nodes and relationships are created when missing. Called twice per turn
// (user line, assistant line) by the persistence hook.
func (s *Store) StoreTurn(ctx context.Context, userID, conversationID, role, content string) error {
	query := `
		MERGE (u:User {id: $userId})
		MERGE (c:Conversation {conv_id: $convId})
		MERGE (u)-[:HAS_CONVERSATION]->(c)
		CREATE (m:Message {role: $role, text: $text, timestamp: $ts})
		MERGE (c)-[:HAS_MESSAGE]->(m)
	`

	_, err := s.RunWrite(ctx, query, map[string]any{
		"userId": userID,
		"convId": conversationID,
		"role":   role,
		"text":   content,
		"ts":     time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return err
	}

	s.logger.Debug("Turn message stored",
		zap.String("conversation_id", conversationID),
		zap.String("role", role),
	)
	return nil
}

// ListConversations returns all conversation ids for a user, ordered.
func (s *Store) ListConversations(ctx context.Context, userID string) ([]string, error) {
	query := `
		MATCH (u:User {id: $userId})-[:HAS_CONVERSATION]->(c:Conversation)
		RETURN c.conv_id AS conversation_id
		ORDER BY conversation_id
	`

	rows, err := s.Run(ctx, query, map[string]any{"userId": userID})
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		if id := getStringFromRow(row, "conversation_id", ""); id != "" {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// GetConversation returns the full transcript of one conversation in
// timestamp order.
func (s *Store) GetConversation(ctx context.Context, userID, conversationID string) ([]TurnMessage, error) {
	query := `
		MATCH (u:User {id: $userId})-[:HAS_CONVERSATION]->(c:Conversation {conv_id: $convId})
		      -[:HAS_MESSAGE]->(m:Message)
		RETURN m.role AS role, m.text AS text, m.timestamp AS ts
		ORDER BY m.timestamp
	`

	rows, err := s.Run(ctx, query, map[string]any{
		"userId": userID,
		"convId": conversationID,
	})
	if err != nil {
		return nil, err
	}

	messages := make([]TurnMessage, 0, len(rows))
	for _, row := range rows {
		messages = append(messages, TurnMessage{
			Role:      getStringFromRow(row, "role", ""),
			Content:   getStringFromRow(row, "text", ""),
			Timestamp: getStringFromRow(row, "ts", ""),
		})
	}
	return messages, nil
}

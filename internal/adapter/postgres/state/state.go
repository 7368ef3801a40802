package state

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domainagent "github.com/charlietlamb/openai-hack/internal/domain/agent"
	portstate "github.com/charlietlamb/openai-hack/internal/port/state"
)

var _ portstate.Store = (*Store)(nil)

type Store struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) Initialize(ctx context.Context, id int) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO agent_states (id) VALUES ($1)
		ON CONFLICT (id) DO UPDATE
		SET transcript = '', verdict = FALSE, intensity = 0, updated_at = now()`, id)
	if err != nil {
		return fmt.Errorf("initialize agent %d: %w", id, err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id int) (domainagent.State, error) {
	var st domainagent.State
	err := s.pool.QueryRow(ctx,
		`SELECT id, transcript, verdict, intensity FROM agent_states WHERE id = $1`, id,
	).Scan(&st.ID, &st.Transcript, &st.Verdict, &st.Intensity)
	if errors.Is(err, pgx.ErrNoRows) {
		return domainagent.State{}, fmt.Errorf("agent %d: %w", id, portstate.ErrNotFound)
	}
	if err != nil {
		return domainagent.State{}, fmt.Errorf("get agent %d: %w", id, err)
	}
	return st, nil
}

func (s *Store) SetConversation(ctx context.Context, id int, text string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO agent_states (id, transcript) VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET transcript = EXCLUDED.transcript, updated_at = now()`, id, text)
	if err != nil {
		return fmt.Errorf("set transcript for agent %d: %w", id, err)
	}
	return nil
}

func (s *Store) SetVerdict(ctx context.Context, id int, verdict bool) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO agent_states (id, verdict) VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET verdict = EXCLUDED.verdict, updated_at = now()`, id, verdict)
	if err != nil {
		return fmt.Errorf("set verdict for agent %d: %w", id, err)
	}
	return nil
}

func (s *Store) SetIntensity(ctx context.Context, id int, intensity float64) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO agent_states (id, intensity) VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET intensity = EXCLUDED.intensity, updated_at = now()`, id, intensity)
	if err != nil {
		return fmt.Errorf("set intensity for agent %d: %w", id, err)
	}
	return nil
}

func (s *Store) GetAll(ctx context.Context) ([]domainagent.State, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, transcript, verdict, intensity FROM agent_states ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list agents: %w", err)
	}
	defer rows.Close()

	out := []domainagent.State{}
	for rows.Next() {
		var st domainagent.State
		if err := rows.Scan(&st.ID, &st.Transcript, &st.Verdict, &st.Intensity); err != nil {
			return nil, fmt.Errorf("scanning agent state: %w", err)
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

func (s *Store) ClearAll(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM agent_states`); err != nil {
		return fmt.Errorf("clear agents: %w", err)
	}
	return nil
}

func (s *Store) SetQuestion(ctx context.Context, question string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO poll_question (singleton, question) VALUES (TRUE, $1)
		ON CONFLICT (singleton) DO UPDATE SET question = EXCLUDED.question, updated_at = now()`, question)
	if err != nil {
		return fmt.Errorf("set question: %w", err)
	}
	return nil
}

func (s *Store) GetQuestion(ctx context.Context) (string, error) {
	var q string
	err := s.pool.QueryRow(ctx, `SELECT question FROM poll_question WHERE singleton`).Scan(&q)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get question: %w", err)
	}
	return q, nil
}

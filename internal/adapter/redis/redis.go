// Package redis stores agent state as one Redis hash per agent.
package redis

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	goredis "github.com/redis/go-redis/v9"

	domainagent "github.com/charlietlamb/openai-hack/internal/domain/agent"
	portstate "github.com/charlietlamb/openai-hack/internal/port/state"
)

const (
	keyPrefix   = "character:"
	questionKey = "poll:question"
	scanCount   = 256

	fieldID        = "id"
	fieldChat      = "chat"
	fieldAnswer    = "answer"
	fieldIntensity = "intensity"
)

var _ portstate.Store = (*Store)(nil)

// Connect parses url, opens a client and pings it.
func Connect(ctx context.Context, url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	rdb := goredis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	return rdb, nil
}

type Store struct {
	rdb goredis.UniversalClient
}

func New(rdb goredis.UniversalClient) *Store {
	return &Store{rdb: rdb}
}

func key(id int) string { return keyPrefix + strconv.Itoa(id) }

func (s *Store) Initialize(ctx context.Context, id int) error {
	err := s.rdb.HSet(ctx, key(id),
		fieldID, id,
		fieldChat, "",
		fieldAnswer, "false",
		fieldIntensity, "0",
	).Err()
	if err != nil {
		return fmt.Errorf("initialize agent %d: %w", id, err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id int) (domainagent.State, error) {
	fields, err := s.rdb.HGetAll(ctx, key(id)).Result()
	if err != nil {
		return domainagent.State{}, fmt.Errorf("get agent %d: %w", id, err)
	}
	if len(fields) == 0 {
		return domainagent.State{}, fmt.Errorf("agent %d: %w", id, portstate.ErrNotFound)
	}
	return decode(id, fields)
}

// Every setter also writes the id so a record created by a setter is complete.
func (s *Store) set(ctx context.Context, id int, field string, value any) error {
	if err := s.rdb.HSet(ctx, key(id), fieldID, id, field, value).Err(); err != nil {
		return fmt.Errorf("set %s for agent %d: %w", field, id, err)
	}
	return nil
}

func (s *Store) SetConversation(ctx context.Context, id int, text string) error {
	return s.set(ctx, id, fieldChat, text)
}

func (s *Store) SetVerdict(ctx context.Context, id int, verdict bool) error {
	return s.set(ctx, id, fieldAnswer, strconv.FormatBool(verdict))
}

func (s *Store) SetIntensity(ctx context.Context, id int, intensity float64) error {
	return s.set(ctx, id, fieldIntensity, strconv.FormatFloat(intensity, 'f', -1, 64))
}

func (s *Store) GetAll(ctx context.Context) ([]domainagent.State, error) {
	keys, err := s.keys(ctx)
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return []domainagent.State{}, nil
	}

	cmds := make([]*goredis.MapStringStringCmd, len(keys))
	_, err = s.rdb.Pipelined(ctx, func(p goredis.Pipeliner) error {
		for i, k := range keys {
			cmds[i] = p.HGetAll(ctx, k)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("get all agents: %w", err)
	}

	out := make([]domainagent.State, 0, len(keys))
	for i, cmd := range cmds {
		fields := cmd.Val()
		if len(fields) == 0 {
			// Deleted between SCAN and HGETALL.
			continue
		}
		id, err := strconv.Atoi(strings.TrimPrefix(keys[i], keyPrefix))
		if err != nil {
			continue
		}
		st, err := decode(id, fields)
		if err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) ClearAll(ctx context.Context) error {
	keys, err := s.keys(ctx)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("clear agents: %w", err)
	}
	return nil
}

func (s *Store) SetQuestion(ctx context.Context, question string) error {
	if err := s.rdb.Set(ctx, questionKey, question, 0).Err(); err != nil {
		return fmt.Errorf("set question: %w", err)
	}
	return nil
}

func (s *Store) GetQuestion(ctx context.Context) (string, error) {
	q, err := s.rdb.Get(ctx, questionKey).Result()
	if errors.Is(err, goredis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get question: %w", err)
	}
	return q, nil
}

// keys walks the keyspace with SCAN rather than KEYS so large stores never block the server.
func (s *Store) keys(ctx context.Context) ([]string, error) {
	var (
		out    []string
		cursor uint64
	)
	for {
		batch, next, err := s.rdb.Scan(ctx, cursor, keyPrefix+"*", scanCount).Result()
		if err != nil {
			return nil, fmt.Errorf("scanning agent keys: %w", err)
		}
		out = append(out, batch...)
		if next == 0 {
			return out, nil
		}
		cursor = next
	}
}

func decode(id int, fields map[string]string) (domainagent.State, error) {
	st := domainagent.DefaultState(id)
	st.Transcript = fields[fieldChat]
	st.Verdict = strings.EqualFold(fields[fieldAnswer], "true")
	if raw := fields[fieldIntensity]; raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return domainagent.State{}, fmt.Errorf("decoding intensity for agent %d: %w", id, err)
		}
		st.Intensity = v
	}
	return st, nil
}

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"onboarding_backend/internal/model"
	"onboarding_backend/internal/progression"

	"github.com/go-redis/redis/v8"
)

// GateSession 一次观看/阅读会话的门控状态，只存在于会话存储中
type GateSession struct {
	AssignmentID string                    `json:"assignmentId"`
	ModuleID     string                    `json:"moduleId"`
	ModuleType   model.ModuleType          `json:"moduleType"`
	Video        *progression.VideoState   `json:"video,omitempty"`
	Reading      *progression.ReadingState `json:"reading,omitempty"`
	OpenedAt     time.Time                 `json:"openedAt"`
	UpdatedAt    time.Time                 `json:"updatedAt"`
}

func (g *GateSession) clone() *GateSession {
	c := *g
	if g.Video != nil {
		v := *g.Video
		c.Video = &v
	}
	if g.Reading != nil {
		r := *g.Reading
		c.Reading = &r
	}
	return &c
}

// GateSessionStore keeps per-(assignment, module) gate state between
// playback samples. Get returns (nil, nil) when no session exists.
type GateSessionStore interface {
	Get(ctx context.Context, assignmentID, moduleID string) (*GateSession, error)
	Save(ctx context.Context, session *GateSession) error
	Delete(ctx context.Context, assignmentID, moduleID string) error
}

func gateSessionKey(assignmentID, moduleID string) string {
	return fmt.Sprintf("training:gate:%s:%s", assignmentID, moduleID)
}

type RedisGateSessionStore struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisGateSessionStore(client *redis.Client, ttl time.Duration) *RedisGateSessionStore {
	return &RedisGateSessionStore{Client: client, TTL: ttl}
}

func (s *RedisGateSessionStore) Get(ctx context.Context, assignmentID, moduleID string) (*GateSession, error) {
	data, err := s.Client.Get(ctx, gateSessionKey(assignmentID, moduleID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var session GateSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("decode gate session: %w", err)
	}
	return &session, nil
}

func (s *RedisGateSessionStore) Save(ctx context.Context, session *GateSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.Client.Set(ctx, gateSessionKey(session.AssignmentID, session.ModuleID), data, s.TTL).Err()
}

func (s *RedisGateSessionStore) Delete(ctx context.Context, assignmentID, moduleID string) error {
	return s.Client.Del(ctx, gateSessionKey(assignmentID, moduleID)).Err()
}

type memorySession struct {
	session   GateSession
	expiresAt time.Time
}

// MemoryGateSessionStore 单实例部署或测试使用，过期条目由 Sweep 清理
type MemoryGateSessionStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[string]memorySession
}

func NewMemoryGateSessionStore(ttl time.Duration) *MemoryGateSessionStore {
	return &MemoryGateSessionStore{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]memorySession),
	}
}

func (s *MemoryGateSessionStore) Get(ctx context.Context, assignmentID, moduleID string) (*GateSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := gateSessionKey(assignmentID, moduleID)
	entry, ok := s.sessions[key]
	if !ok {
		return nil, nil
	}
	if s.ttl > 0 && s.now().After(entry.expiresAt) {
		delete(s.sessions, key)
		return nil, nil
	}
	return entry.session.clone(), nil
}

func (s *MemoryGateSessionStore) Save(ctx context.Context, session *GateSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[gateSessionKey(session.AssignmentID, session.ModuleID)] = memorySession{
		session:   *session.clone(),
		expiresAt: s.now().Add(s.ttl),
	}
	return nil
}

func (s *MemoryGateSessionStore) Delete(ctx context.Context, assignmentID, moduleID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, gateSessionKey(assignmentID, moduleID))
	return nil
}

// Sweep 删除过期会话，返回删除数量
func (s *MemoryGateSessionStore) Sweep() int {
	if s.ttl <= 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for key, entry := range s.sessions {
		if now.After(entry.expiresAt) {
			delete(s.sessions, key)
			removed++
		}
	}
	return removed
}

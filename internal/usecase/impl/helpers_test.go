package impl

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"cloudburst/config"
	"cloudburst/internal/domain/entity"
	"cloudburst/internal/domain/repository"
	"cloudburst/internal/infra/persistence/records"
	"cloudburst/internal/infra/store/memory"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 7, 14, 10, 30, 0, 0, time.UTC)

func fixedNow() time.Time { return testNow }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func floatPtr(v float64) *float64 { return &v }

// recordingStore counts writes and can fail writes under a path prefix.
type recordingStore struct {
	repository.RecordStore

	mu       sync.Mutex
	writes   []string
	failPath string
}

func newRecordingStore() *recordingStore {
	return &recordingStore{RecordStore: memory.New()}
}

func (s *recordingStore) record(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failPath != "" && strings.HasPrefix(path, s.failPath) {
		return errors.New("store unavailable")
	}
	s.writes = append(s.writes, path)

	return nil
}

func (s *recordingStore) Set(ctx context.Context, path string, value any) error {
	if err := s.record(path); err != nil {
		return err
	}

	return s.RecordStore.Set(ctx, path, value)
}

func (s *recordingStore) Update(ctx context.Context, path string, fields map[string]any) error {
	if err := s.record(path); err != nil {
		return err
	}

	return s.RecordStore.Update(ctx, path, fields)
}

func (s *recordingStore) Remove(ctx context.Context, path string) error {
	if err := s.record(path); err != nil {
		return err
	}

	return s.RecordStore.Remove(ctx, path)
}

func (s *recordingStore) failOn(prefix string) {
	s.mu.Lock()
	s.failPath = prefix
	s.mu.Unlock()
}

// writesUnder returns the recorded write paths starting with prefix.
func (s *recordingStore) writesUnder(prefix string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []string
	for _, w := range s.writes {
		if strings.HasPrefix(w, prefix) {
			out = append(out, w)
		}
	}

	return out
}

func (s *recordingStore) reset() {
	s.mu.Lock()
	s.writes = nil
	s.mu.Unlock()
}

type testRepos struct {
	store         *recordingStore
	nodes         repository.NodeRepository
	contacts      repository.ContactRepository
	alerts        repository.AlertRepository
	notifications repository.NotificationRepository
	logs          repository.LogRepository
}

func newTestRepos() *testRepos {
	store := newRecordingStore()

	return &testRepos{
		store:         store,
		nodes:         records.NewNodeRepository(store),
		contacts:      records.NewContactRepository(store),
		alerts:        records.NewAlertRepository(store),
		notifications: records.NewNotificationRepository(store),
		logs:          records.NewLogRepository(store),
	}
}

func (r *testRepos) addNode(t *testing.T, id, name string, lat, lon float64) {
	t.Helper()

	require.NoError(t, r.nodes.Create(context.Background(), &entity.Node{
		ID: id,
		Metadata: entity.NodeMetadata{
			NodeID: id, Type: entity.NodeTypeNode, Name: name,
			Latitude: lat, Longitude: lon, NearbyNodes: []string{}, Status: nodeStatusActive, CreatedAt: 1,
		},
	}))
}

func (r *testRepos) addContact(t *testing.T, id, name, phone string, nodes ...string) {
	t.Helper()

	require.NoError(t, r.contacts.Save(context.Background(), &entity.Contact{
		ID: id, Name: name, Phone: phone, AssociatedNodes: nodes,
		NotificationPreference: entity.PreferenceSMS, CreatedAt: 1, LastUpdated: 1,
	}))
}

func (r *testRepos) logsOfType(t *testing.T, logType entity.LogType) []*entity.LogEntry {
	t.Helper()

	entries, err := r.logs.Recent(context.Background(), 1000)
	require.NoError(t, err)

	var out []*entity.LogEntry
	for _, e := range entries {
		if e.Type == logType {
			out = append(out, e)
		}
	}

	return out
}

func testConfig() *config.Config {
	return &config.Config{
		SMS:      &config.SMSConfig{Gateway: "simulated"},
		Firebase: &config.FirebaseConfig{},
		Alert:    &config.AlertConfig{MaxMessageLength: 500, InAppExpiry: 7 * 24 * time.Hour},
		Logs:     &config.LogsConfig{SubscriptionLimit: 100},
		Auth:     &config.AuthConfig{},
	}
}

func configuredSMS() *config.SMSConfig {
	return &config.SMSConfig{
		Enabled: true, AccountSID: "AC123", AuthToken: "secret", PhoneNumber: "+15550001111", Gateway: "twilio",
	}
}

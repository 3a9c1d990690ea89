package service

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSyncClient struct {
	tables []string
	err    error
}

func (f *fakeSyncClient) Sync(_ context.Context) ([]string, error) {
	return f.tables, f.err
}

func TestSyncSelfContainedMode(t *testing.T) {
	svc := NewSyncService(nil, nil, zap.NewNop())

	result := svc.SyncFromSAP(context.Background())
	require.True(t, result.Success)
	require.Equal(t, selfContainedTables, result.SynchronizedTables)
	require.False(t, result.AuditLogged)
}

func TestSyncReportsExternalFailure(t *testing.T) {
	svc := NewSyncService(&fakeSyncClient{err: errors.New("connection refused")}, nil, zap.NewNop())

	result := svc.SyncFromSAP(context.Background())
	require.False(t, result.Success)
	require.Contains(t, result.Message, "connection refused")
	require.Empty(t, result.SynchronizedTables)
}

func TestSyncPublishesAuditRecord(t *testing.T) {
	pub := &fakePublisher{}
	svc := NewSyncService(&fakeSyncClient{tables: []string{"Maintenance_Schedules_Table"}}, pub, zap.NewNop())

	result := svc.SyncFromSAP(context.Background())
	require.True(t, result.Success)
	require.True(t, result.AuditLogged)
	require.Equal(t, []string{"audit.sync.completed"}, pub.keys)
}

func TestSyncAuditFailureIsIndependent(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker down")}
	svc := NewSyncService(&fakeSyncClient{tables: []string{"T1"}}, pub, zap.NewNop())

	result := svc.SyncFromSAP(context.Background())
	require.True(t, result.Success)
	require.False(t, result.AuditLogged)
	require.Equal(t, []string{"T1"}, result.SynchronizedTables)
}

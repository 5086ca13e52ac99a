package repository

import (
	"context"
	"testing"

	"happy-jasmine/internal/database"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMigrations_AllAppliedAndRerunIsNoop(t *testing.T) {
	statuses, err := database.GetMigrationStatus(context.Background(), testDB, "../../migrations")
	require.NoError(t, err)
	require.Len(t, statuses, 10)

	for _, s := range statuses {
		assert.Equal(t, goose.StateApplied, s.State, s.Source.Path)
	}

	require.NoError(t, database.RunMigrations(testDB, "../../migrations", zap.NewNop()))
}

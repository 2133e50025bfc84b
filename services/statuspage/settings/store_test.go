package settings

import (
	"context"
	"errors"
	"testing"

	"github.com/iulianpascalau/status-page/services/statuspage/common"
	"github.com/iulianpascalau/status-page/services/statuspage/testsCommon"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSettingsStore(t *testing.T) {
	t.Parallel()

	t.Run("nil persister should error", func(t *testing.T) {
		store, err := NewSettingsStore(nil)

		assert.Nil(t, store)
		assert.True(t, store.IsInterfaceNil())
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "nil persister")
	})
	t.Run("should work", func(t *testing.T) {
		store, err := NewSettingsStore(&testsCommon.StoreStub{})

		assert.NotNil(t, store)
		assert.False(t, store.IsInterfaceNil())
		assert.Nil(t, err)
		assert.Equal(t, common.Settings{}, store.Settings())
	})
}

func TestSettingsStore_Dispatch(t *testing.T) {
	t.Parallel()

	t.Run("persists and keeps the reduced record", func(t *testing.T) {
		t.Parallel()

		var persisted []common.Settings
		store, _ := NewSettingsStore(&testsCommon.StoreStub{
			SaveSettingsHandler: func(ctx context.Context, settings common.Settings) error {
				persisted = append(persisted, settings)
				return nil
			},
		})
		ctx := context.Background()

		_, err := store.Dispatch(ctx, List{Settings: common.Settings{
			ServiceName: "svc",
			APIKeys: []common.APIKey{
				{ID: "2", CreatedDate: "2020-02"},
				{ID: "1", CreatedDate: "2020-01"},
			},
		}})
		require.NoError(t, err)

		updated, err := store.Dispatch(ctx, AddAPIKey{Key: common.APIKey{ID: "0", CreatedDate: "2019-12"}})
		require.NoError(t, err)
		assert.Equal(t, []string{"1", "2", "0"}, keyIDs(updated.APIKeys))
		assert.Equal(t, updated, store.Settings())

		require.Len(t, persisted, 2)
		assert.Equal(t, []string{"1", "2"}, keyIDs(persisted[0].APIKeys))
	})
	t.Run("persist failure keeps the previous record", func(t *testing.T) {
		t.Parallel()

		expectedErr := errors.New("disk full")
		fail := false
		store, _ := NewSettingsStore(&testsCommon.StoreStub{
			SaveSettingsHandler: func(ctx context.Context, settings common.Settings) error {
				if fail {
					return expectedErr
				}
				return nil
			},
		})
		ctx := context.Background()

		_, err := store.Dispatch(ctx, EditLogo{Logo: common.Logo{ID: "logo"}})
		require.NoError(t, err)

		fail = true
		current, err := store.Dispatch(ctx, RemoveLogo{})
		assert.True(t, errors.Is(err, expectedErr))
		assert.Contains(t, err.Error(), RemoveLogoType)
		assert.Equal(t, "logo", current.LogoID)
		assert.Equal(t, "logo", store.Settings().LogoID)
	})
	t.Run("returned record is a copy", func(t *testing.T) {
		t.Parallel()

		store, _ := NewSettingsStore(&testsCommon.StoreStub{})
		updated, err := store.Dispatch(context.Background(), AddAPIKey{Key: common.APIKey{ID: "a"}})
		require.NoError(t, err)

		updated.APIKeys[0].ID = "changed"
		assert.Equal(t, "a", store.Settings().APIKeys[0].ID)
	})
}

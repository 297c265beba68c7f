package repo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type ctxKey struct{}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	return conn
}

func TestBaseDBBindsContext(t *testing.T) {
	base := NewBase(newTestDB(t))

	ctx := context.WithValue(context.Background(), ctxKey{}, "value")
	conn := base.DB(ctx)

	require.NotNil(t, conn.Statement)
	assert.Equal(t, ctx, conn.Statement.Context)
	assert.True(t, conn.SkipDefaultTransaction)
}

func TestBaseDBDoesNotLeakScopes(t *testing.T) {
	base := NewBase(newTestDB(t))
	require.NoError(t, base.DB(context.Background()).Exec("CREATE TABLE beans (id INTEGER, name TEXT)").Error)
	require.NoError(t, base.DB(context.Background()).Exec("INSERT INTO beans VALUES (1, 'Huila'), (2, 'Yirgacheffe')").Error)

	var first []string
	require.NoError(t, base.DB(context.Background()).Table("beans").Where("id = ?", 1).Pluck("name", &first).Error)
	assert.Equal(t, []string{"Huila"}, first)

	var all []string
	require.NoError(t, base.DB(nil).Table("beans").Order("id").Pluck("name", &all).Error)
	assert.Equal(t, []string{"Huila", "Yirgacheffe"}, all)
}

package logger

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestGormLogger_Trace(t *testing.T) {
	var buf bytes.Buffer
	SetupWithWriter(&buf, "production", "debug")
	ctx := context.Background()
	l := NewGormLogger(gormlogger.Warn, 200*time.Millisecond)
	stmt := func() (string, int64) { return `SELECT * FROM "donors" WHERE phone = $1`, 0 }

	l.Trace(ctx, time.Now(), stmt, gorm.ErrRecordNotFound)
	assert.Empty(t, buf.String(), "a missing row is not a database error")

	l.Trace(ctx, time.Now(), stmt, errors.New("connection reset"))
	assert.Contains(t, buf.String(), "SQL Error")
	assert.Contains(t, buf.String(), "connection reset")

	buf.Reset()
	l.Trace(ctx, time.Now().Add(-time.Second), stmt, nil)
	assert.Contains(t, buf.String(), "Slow SQL")

	buf.Reset()
	l.Trace(ctx, time.Now(), stmt, nil)
	assert.Empty(t, buf.String(), "fast statements are only logged at info")

	l.LogMode(gormlogger.Info).Trace(ctx, time.Now(), stmt, nil)
	assert.Contains(t, buf.String(), `"msg":"SQL"`)
}

func TestGormLogger_ParamsFilterDropsValues(t *testing.T) {
	l := NewGormLogger(gormlogger.Info, 0)
	sql, params := l.ParamsFilter(context.Background(), `SELECT * FROM "donors" WHERE phone = $1`, "9990000001")
	assert.Equal(t, `SELECT * FROM "donors" WHERE phone = $1`, sql)
	assert.Nil(t, params)
}

func TestGormLogger_Silent(t *testing.T) {
	var buf bytes.Buffer
	SetupWithWriter(&buf, "production", "debug")
	l := NewGormLogger(gormlogger.Silent, time.Millisecond)

	l.Trace(context.Background(), time.Now().Add(-time.Second), func() (string, int64) { return "SELECT 1", 1 }, errors.New("boom"))
	l.Error(context.Background(), "failed %s", "migration")
	assert.Empty(t, buf.String())
}

package database

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/guuleed/prison-records/internal/config"
)

func TestDSNWithPassword(t *testing.T) {
	cfg := config.Config{
		DBUser: "records", DBPass: "hunter2",
		DBHost: "db.internal", DBPort: "3306", DBName: "prison",
	}
	assert.Equal(t,
		"records:hunter2@tcp(db.internal:3306)/prison?charset=utf8mb4&parseTime=true&loc=UTC",
		DSN(cfg))
}

func TestDSNOmitsEmptyPassword(t *testing.T) {
	cfg := config.Config{
		DBUser: "records",
		DBHost: "localhost", DBPort: "3307", DBName: "prison_test",
	}
	assert.Equal(t,
		"records@tcp(localhost:3307)/prison_test?charset=utf8mb4&parseTime=true&loc=UTC",
		DSN(cfg))
}

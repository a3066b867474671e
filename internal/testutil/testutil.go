package testutil

import (
	"os"
	"strings"
	"time"

	"github.com/datastax/data-api-filters/log"
	"github.com/datastax/data-api-filters/types"
	"go.uber.org/zap"
)

func PanicIfError(err error) {
	if err != nil {
		panic(err)
	}
}

func TestLogger() log.Logger {
	if strings.ToUpper(os.Getenv("TEST_TRACE")) == "ON" {
		logger, err := zap.NewDevelopment()
		if err != nil {
			panic(err)
		}
		return log.NewZapLogger(logger)
	}

	return log.NewZapLogger(zap.NewNop())
}

func MustParseTime(value string) time.Time {
	t, err := types.StringToTime(value)
	PanicIfError(err)
	return t
}

// CommentRatings returns a fresh comment_ratings table: a single rating by user "Gena" with its comment
// and the user groups as nested relations.
func CommentRatings() []types.Row {
	return []types.Row{
		{
			"id":     int64(1),
			"rating": "1",
			"comment": types.Row{
				"id":      int64(1),
				"email":   "example@ya.ru",
				"content": "Hello world",
				"created": MustParseTime("2012-12-01T12:00:00Z"),
			},
			"created":      MustParseTime("2012-12-01T12:00:00Z"),
			"is_moderated": false,
			"user": types.Row{
				"id":   int64(1),
				"name": "Gena",
				"groups": []types.Row{
					{"id": int64(1), "name": "admins"},
					{"id": int64(2), "name": "writers"},
				},
			},
		},
	}
}

// Profiles returns a fresh profiles table with one working and one studying profile.
func Profiles() []types.Row {
	return []types.Row{
		{"id": int64(1), "name": "gennady", "surname": "chibisov", "activities": "working"},
		{"id": int64(2), "name": "vladimir", "surname": "ivanov", "activities": "studying"},
	}
}

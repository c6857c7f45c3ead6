package handler

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/studio-console-api/pkg/errors"
)

const dateLayout = "2006-01-02"

// parseInstant accepts RFC3339 or a YYYY-MM-DD date, which is read as midnight in loc.
// dateOnly reports which form matched.
func parseInstant(raw string, loc *time.Location) (t time.Time, dateOnly bool, err error) {
	if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
		return parsed, false, nil
	}
	parsed, err := time.ParseInLocation(dateLayout, raw, loc)
	if err != nil {
		return time.Time{}, false, err
	}
	return parsed, true, nil
}

// queryInstant reads an optional instant from the query string. A nil result means absent.
func queryInstant(c *gin.Context, key string, loc *time.Location) (*time.Time, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	t, _, err := parseInstant(raw, loc)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid "+key+", expected RFC3339 or YYYY-MM-DD")
	}
	return &t, nil
}

// queryRange reads from/to bounds. A date-only "to" covers that whole day.
func queryRange(c *gin.Context, loc *time.Location) (from, to *time.Time, err error) {
	if from, err = queryInstant(c, "from", loc); err != nil {
		return nil, nil, err
	}
	raw := strings.TrimSpace(c.Query("to"))
	if raw != "" {
		t, dateOnly, perr := parseInstant(raw, loc)
		if perr != nil {
			return nil, nil, appErrors.Clone(appErrors.ErrValidation, "invalid to, expected RFC3339 or YYYY-MM-DD")
		}
		if dateOnly {
			t = t.AddDate(0, 0, 1)
		}
		to = &t
	}
	if from != nil && to != nil && !from.Before(*to) {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "from must be before to")
	}
	return from, to, nil
}

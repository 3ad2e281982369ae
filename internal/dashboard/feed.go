package dashboard

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nevofinance/nevo/database/gensql"
)

// Subject is the NATS subject every recorded activity is announced on.
const Subject = "pools.activity"

type ActivityWriter interface {
	InsertActivity(ctx context.Context, arg gensql.InsertActivityParams) error
}

type Publisher interface {
	Publish(subj string, data []byte) error
}

type Event struct {
	ID   uuid.UUID `json:"id"`
	Kind Kind      `json:"kind"`
	At   time.Time `json:"at"`
}

// Recorder is what producers of activities depend on; Feed implements it.
type Recorder interface {
	Record(ctx context.Context, a Activity) error
}

// Feed stores activities and announces them to live dashboards.
type Feed struct {
	DB     ActivityWriter
	Pub    Publisher
	Logger *slog.Logger
}

func (f *Feed) Record(ctx context.Context, a Activity) error {
	row := a.row()
	if err := f.DB.InsertActivity(ctx, row); err != nil {
		return err
	}

	data, err := json.Marshal(Event{ID: row.ID, Kind: a.Kind(), At: row.CreatedAt})
	if err != nil {
		return err
	}
	// The row is already stored, so a missed announcement only delays live views.
	if err := f.Pub.Publish(Subject, data); err != nil {
		f.Logger.LogAttrs(ctx, slog.LevelWarn, "failed to publish activity",
			slog.String("kind", string(a.Kind())),
			slog.String("error", err.Error()),
		)
	}
	return nil
}

package db

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
)

const healthPingTimeout = 3 * time.Second

// PoolSnapshot is the connection pool state reported by the database
// health endpoint. Busy is the number of connections currently checked
// out serving requests.
type PoolSnapshot struct {
	Open        int32  `json:"open"`
	Idle        int32  `json:"idle"`
	Busy        int32  `json:"busy"`
	Max         int32  `json:"max"`
	Acquires    int64  `json:"acquires"`
	AcquireWait string `json:"acquire_wait"`
}

// SnapshotPool reads the pool counters at a point in time.
func SnapshotPool(pool *pgxpool.Pool) PoolSnapshot {
	st := pool.Stat()
	return PoolSnapshot{
		Open:        st.TotalConns(),
		Idle:        st.IdleConns(),
		Busy:        st.AcquiredConns(),
		Max:         st.MaxConns(),
		Acquires:    st.AcquireCount(),
		AcquireWait: st.AcquireDuration().String(),
	}
}

// HealthHandler pings the database and reports the pool snapshot. A
// failed ping answers 503, letting a load balancer rotate the instance
// out while the pool recovers.
func HealthHandler(pool *pgxpool.Pool) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), healthPingTimeout)
		defer cancel()

		if err := pool.Ping(ctx); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]interface{}{
				"status": "unavailable",
				"error":  err.Error(),
				"pool":   SnapshotPool(pool),
			})
		}
		return c.JSON(http.StatusOK, map[string]interface{}{
			"status": "ok",
			"pool":   SnapshotPool(pool),
		})
	}
}

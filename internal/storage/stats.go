package storage

import (
	"context"
	"fmt"
	"time"
)

// VolumeSummaryPeriod holds aggregated training volume for one time period,
// broken down by muscle group. Feeds the progress chart endpoints.
type VolumeSummaryPeriod struct {
	Period       string              `json:"period"`
	Sessions     int                 `json:"sessions"`
	TotalSets    int                 `json:"total_sets"`
	TotalVolume  float64             `json:"total_volume"`
	Calories     float64             `json:"calories"`
	MuscleGroups []MuscleGroupVolume `json:"muscle_groups"`
}

// MuscleGroupVolume is one muscle group's share of a period's volume.
type MuscleGroupVolume struct {
	MuscleGroup string  `json:"muscle_group"`
	Sets        int     `json:"sets"`
	Volume      float64 `json:"volume"`
}

// GetVolumeSummary returns per-period training volume grouped by muscle
// group. Bucket is "1 week" or "1 month"; anything else aggregates monthly.
func (db *DB) GetVolumeSummary(ctx context.Context, start, end time.Time, bucket string, userID int) ([]VolumeSummaryPeriod, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT date_trunc($1, ws.start_time)::date AS period,
		        ss.muscle_group,
		        COUNT(DISTINCT ws.id)::int,
		        COUNT(*)::int,
		        COALESCE(SUM(ss.volume), 0)
		 FROM session_sets ss
		 JOIN workout_sessions ws ON ws.id = ss.session_id
		 WHERE ws.start_time >= $2 AND ws.start_time < $3 AND ws.user_id = $4
		   AND ws.status = 'completed' AND ss.set_number > 0
		 GROUP BY period, ss.muscle_group
		 ORDER BY period DESC, SUM(ss.volume) DESC`,
		truncInterval(bucket), start, end, userID)
	if err != nil {
		return nil, fmt.Errorf("querying volume summary: %w", err)
	}
	defer rows.Close()

	periodMap := make(map[string]*VolumeSummaryPeriod)
	var order []string

	for rows.Next() {
		var periodTime time.Time
		var mg MuscleGroupVolume
		var sessions int
		if err := rows.Scan(&periodTime, &mg.MuscleGroup, &sessions, &mg.Sets, &mg.Volume); err != nil {
			return nil, fmt.Errorf("scanning volume summary: %w", err)
		}
		key := periodTime.Format("2006-01-02")
		p, ok := periodMap[key]
		if !ok {
			p = &VolumeSummaryPeriod{Period: key}
			periodMap[key] = p
			order = append(order, key)
		}
		if sessions > p.Sessions {
			p.Sessions = sessions
		}
		p.TotalSets += mg.Sets
		p.TotalVolume += mg.Volume
		p.MuscleGroups = append(p.MuscleGroups, mg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	result := make([]VolumeSummaryPeriod, 0, len(order))
	for _, key := range order {
		p := periodMap[key]
		p.Calories = p.TotalVolume * 0.1
		result = append(result, *p)
	}
	return result, nil
}

// DataStats holds aggregate statistics about a user's training history.
type DataStats struct {
	TotalSessions   int64      `json:"total_sessions"`
	TotalSets       int64      `json:"total_sets"`
	TotalVolume     float64    `json:"total_volume"`
	EarliestSession *time.Time `json:"earliest_session"`
	LatestSession   *time.Time `json:"latest_session"`
}

// GetDataStats returns lifetime totals for a user.
func (db *DB) GetDataStats(ctx context.Context, userID int) (*DataStats, error) {
	stats := &DataStats{}

	err := db.Pool.QueryRow(ctx,
		`SELECT COUNT(*), MIN(start_time), MAX(start_time)
		 FROM workout_sessions WHERE user_id = $1`, userID,
	).Scan(&stats.TotalSessions, &stats.EarliestSession, &stats.LatestSession)
	if err != nil {
		return nil, fmt.Errorf("counting sessions: %w", err)
	}

	err = db.Pool.QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(SUM(ss.volume), 0)
		 FROM session_sets ss
		 JOIN workout_sessions ws ON ws.id = ss.session_id
		 WHERE ws.user_id = $1 AND ss.set_number > 0`, userID,
	).Scan(&stats.TotalSets, &stats.TotalVolume)
	if err != nil {
		return nil, fmt.Errorf("counting sets: %w", err)
	}

	return stats, nil
}

func truncInterval(bucket string) string {
	switch bucket {
	case "1 week":
		return "week"
	case "1 month":
		return "month"
	default:
		return "month"
	}
}

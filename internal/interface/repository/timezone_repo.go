package repository

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"groundops-service/internal/domain/entity"
	"groundops-service/internal/domain/repository"

	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

// ErrEmptyAirportCode is returned for a blank station code
var ErrEmptyAirportCode = errors.New("empty airport code")

// GormTimezoneRepository resolves station time zones from m_timezone_list.
// Rows are reference data, so a found zone is kept for the process lifetime;
// misses are not cached and hit the table again.
type GormTimezoneRepository struct {
	db *gorm.DB

	mu    sync.RWMutex
	zones map[string]entity.Timezone
	calls singleflight.Group
}

// NewGormTimezoneRepository creates a cached GORM timezone repository
func NewGormTimezoneRepository(db *gorm.DB) repository.TimezoneRepository {
	return &GormTimezoneRepository{
		db:    db,
		zones: make(map[string]entity.Timezone),
	}
}

// Timezonelist GORM model for database mapping
type Timezonelist struct {
	ID          uint           `gorm:"primaryKey"`
	AirportCode string         `gorm:"column:airportcode;unique"`
	AirportName string         `gorm:"column:airport_name"`
	CityCode    string         `gorm:"column:citycode"`
	CityName    string         `gorm:"column:cityname"`
	GmtTz       string         `gorm:"column:gmttz"`
	TzName      string         `gorm:"column:tzname"`
	DeletedAt   gorm.DeletedAt `gorm:"index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName overrides the default table name
func (Timezonelist) TableName() string {
	return "m_timezone_list"
}

// GetByAirportCode returns the zone of an IATA station code, case-insensitive
func (r *GormTimezoneRepository) GetByAirportCode(ctx context.Context, code string) (*entity.Timezone, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, ErrEmptyAirportCode
	}

	r.mu.RLock()
	tz, ok := r.zones[code]
	r.mu.RUnlock()
	if ok {
		return &tz, nil
	}

	v, err, _ := r.calls.Do(code, func() (interface{}, error) {
		return r.load(ctx, code)
	})
	if err != nil {
		return nil, err
	}
	tz = v.(entity.Timezone)
	return &tz, nil
}

func (r *GormTimezoneRepository) load(ctx context.Context, code string) (entity.Timezone, error) {
	var row Timezonelist
	if err := r.db.WithContext(ctx).Where("airportcode = ?", code).First(&row).Error; err != nil {
		return entity.Timezone{}, err
	}

	tz := entity.Timezone{
		ID:          row.ID,
		AirportCode: row.AirportCode,
		AirportName: row.AirportName,
		CityCode:    row.CityCode,
		CityName:    row.CityName,
		GmtTz:       row.GmtTz,
		TzName:      row.TzName,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}

	r.mu.Lock()
	r.zones[code] = tz
	r.mu.Unlock()
	return tz, nil
}

package cycle

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Cycle is one bounded tracking window. Exactly one cycle is active at a
// time; only rollover creates cycles, and the only mutation afterwards is
// flipping IsActive off at the next rollover.
type Cycle struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	StartDate time.Time `gorm:"not null" json:"start_date"`
	EndDate   time.Time `gorm:"not null" json:"end_date"`
	IsActive  bool      `gorm:"not null;default:false;index" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// Traditional seasonal full-moon names, one per calendar month.
var moonNames = [12]string{
	"Wolf Moon",
	"Snow Moon",
	"Worm Moon",
	"Pink Moon",
	"Flower Moon",
	"Strawberry Moon",
	"Buck Moon",
	"Sturgeon Moon",
	"Harvest Moon",
	"Hunter's Moon",
	"Beaver Moon",
	"Cold Moon",
}

// CycleName derives the display name for a cycle starting at t,
// e.g. "Wolf Moon - 25" for January 2025.
func CycleName(t time.Time) string {
	return fmt.Sprintf("%s - %02d", moonNames[t.Month()-1], t.Year()%100)
}

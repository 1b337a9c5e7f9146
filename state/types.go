// Package state holds the client-side view of the remote simulation:
// the snapshot/stats data model and the cache that reconciles polled updates.
package state

import (
	"encoding/json"
	"fmt"
	"math"
)

// RGB is a 0-255 color triple as sent by the remote service (a JSON array).
type RGB [3]uint8

// UnmarshalJSON accepts both integer and float channel values.
func (c *RGB) UnmarshalJSON(data []byte) error {
	var raw []float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decoding color: %w", err)
	}
	if len(raw) != 3 {
		return fmt.Errorf("decoding color: expected 3 channels, got %d", len(raw))
	}
	for i, v := range raw {
		if v < 0 {
			v = 0
		}
		if v > 255 {
			v = 255
		}
		c[i] = uint8(v)
	}
	return nil
}

// Environment describes the simulation surface.
type Environment struct {
	Width           float64 `json:"width"`
	Height          float64 `json:"height"`
	BackgroundColor RGB     `json:"background_color"`
}

// Genes holds the visual-scale gene values after defaulting.
type Genes struct {
	Length float64
	Width  float64
}

// Bacterium is the wire view of one bacterium agent.
// Optional fields are pointers; Normalize resolves them exactly once.
type Bacterium struct {
	ID             string             `json:"id"`
	X              float64            `json:"x"`
	Y              float64            `json:"y"`
	Color          RGB                `json:"color"`
	Energy         float64            `json:"energy"`
	Fitness        float64            `json:"fitness"`
	Age            float64            `json:"age"`
	VX             float64            `json:"vx"`
	VY             float64            `json:"vy"`
	Direction      *float64           `json:"direction,omitempty"`
	LengthGene     *float64           `json:"length_gene,omitempty"`
	WidthGene      *float64           `json:"width_gene,omitempty"`
	Genome         map[string]float64 `json:"genome,omitempty"`
	CanReproduce   bool               `json:"can_reproduce"`
	OffspringCount int                `json:"offspring_count"`

	// Resolved by Normalize, never read from the wire.
	Genes   Genes   `json:"-"`
	Heading float64 `json:"-"` // radians
}

// Phagocyte is the wire view of one phagocyte agent.
// Phagocytes render at a fixed radius; gene values do not affect their size.
type Phagocyte struct {
	ID      string             `json:"id"`
	X       float64            `json:"x"`
	Y       float64            `json:"y"`
	Color   RGB                `json:"color"`
	Energy  float64            `json:"energy"`
	Fitness float64            `json:"fitness"`
	Age     float64            `json:"age"`
	VX      float64            `json:"vx"`
	VY      float64            `json:"vy"`
	Genome  map[string]float64 `json:"genome,omitempty"`
}

// Glucose is the wire view of one glucose item.
type Glucose struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Size     float64 `json:"size"`
	Energy   float64 `json:"energy"`
	Consumed bool    `json:"consumed"`
}

// Agents groups the agent collections of one snapshot.
type Agents struct {
	Bacteria   []Bacterium `json:"bacteria"`
	Phagocytes []Phagocyte `json:"phagocytes"`
	Glucose    []Glucose   `json:"glucose,omitempty"`
}

// SpeciesCount holds per-species population counts.
type SpeciesCount struct {
	Bacteria   int `json:"bacteria"`
	Phagocytes int `json:"phagocytes"`
}

// FitnessBand holds fitness aggregates for one species.
type FitnessBand struct {
	Max float64 `json:"max"`
	Avg float64 `json:"avg"`
	Min float64 `json:"min"`
}

// SpeciesFitness holds fitness aggregates per species.
type SpeciesFitness struct {
	Bacteria   FitnessBand `json:"bacteria"`
	Phagocytes FitnessBand `json:"phagocytes"`
}

// ReproductionStats is an optional per-snapshot reproduction breakdown.
type ReproductionStats struct {
	TotalAsexual     int     `json:"total_asexual"`
	CanReproduceNow  int     `json:"can_reproduce_now"`
	AverageOffspring float64 `json:"average_offspring"`
}

// SnapshotStats holds the aggregates embedded in every snapshot.
type SnapshotStats struct {
	Populations   SpeciesCount       `json:"populations"`
	Fitness       SpeciesFitness     `json:"fitness"`
	Captures      int                `json:"captures"`
	Reproductions int                `json:"reproductions"`
	Reproduction  *ReproductionStats `json:"reproduction,omitempty"`
}

// Snapshot is one full state payload for a given generation.
type Snapshot struct {
	Generation  int           `json:"generation"`
	Timestamp   string        `json:"timestamp"`
	Agents      Agents        `json:"agents"`
	Stats       SnapshotStats `json:"stats"`
	Environment Environment   `json:"environment"`
}

// StatsSummary holds the run-level aggregates of the slow stats payload.
type StatsSummary struct {
	TotalGenerations   int          `json:"total_generations"`
	TotalCaptures      int          `json:"total_captures"`
	TotalReproductions int          `json:"total_reproductions"`
	CurrentPopulation  SpeciesCount `json:"current_population"`
	RunTime            float64      `json:"run_time"` // seconds
}

// Performance holds optional server-side timing figures.
type Performance struct {
	AvgGenerationTime float64 `json:"avg_generation_time"`
	FPS               float64 `json:"fps"`
}

// Stats is the slow-cadence stats payload.
type Stats struct {
	Summary     StatsSummary `json:"summary"`
	Performance *Performance `json:"performance,omitempty"`
}

// defaultGene is the gene value assumed when the remote side omits one.
const defaultGene = 0.5

// Normalize resolves all optional fields in place. It is the single
// defaulting pass; renderers and charts read only resolved fields.
func (s *Snapshot) Normalize() {
	for i := range s.Agents.Bacteria {
		s.Agents.Bacteria[i].normalize()
	}
}

func (b *Bacterium) normalize() {
	b.Genes.Length = resolveGene(b.LengthGene, b.Genome, "length_gene")
	b.Genes.Width = resolveGene(b.WidthGene, b.Genome, "width_gene")

	switch {
	case b.Direction != nil:
		b.Heading = *b.Direction
	case b.VX != 0 || b.VY != 0:
		b.Heading = math.Atan2(b.VY, b.VX)
	default:
		b.Heading = 0
	}
}

// resolveGene prefers the top-level field, falls back to the genome map,
// then to the default. Negative values clamp to zero; values above 1 are
// kept as-is since they only affect visual scale.
func resolveGene(field *float64, genome map[string]float64, key string) float64 {
	v := defaultGene
	if field != nil {
		v = *field
	} else if g, ok := genome[key]; ok {
		v = g
	}
	if v < 0 {
		v = 0
	}
	return v
}

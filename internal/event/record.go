package event

import "github.com/san-kum/magphyx/internal/physics"

// CollisionName is the event_type of a boundary record.
const CollisionName = "collision"

// Record is one line of the event log.
type Record struct {
	N     int
	Name  string
	T     float64
	State physics.Dipole
	Beta  float64
}

type Sink interface {
	Write(rec Record) error
}

// Collector keeps records in memory.
type Collector struct {
	Records []Record
}

func (c *Collector) Write(rec Record) error {
	c.Records = append(c.Records, rec)
	return nil
}

// Discard counts nothing and stores nothing.
type Discard struct{}

func (Discard) Write(Record) error { return nil }

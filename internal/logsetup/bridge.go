package logsetup

import "github.com/op/go-logging"

// RangeSetter is the reference LogCollaborator: op/go-logging has no
// native notion of a delivery range, only a single level threshold that
// passes every record at least that severe, so this sets the module's
// level to the requested max (the most verbose bound) and records min
// only for introspection. Records more severe than min still pass; the
// connManager's interest mask keeps unsubscribed kinds from controllers.
type RangeSetter struct {
	leveled logging.LeveledBackend
	min     logging.Level
	max     logging.Level
}

func NewRangeSetter(leveled logging.LeveledBackend) *RangeSetter {
	return &RangeSetter{leveled: leveled, min: logging.CRITICAL, max: logging.CRITICAL}
}

func (r *RangeSetter) SetDeliveryRange(min, max logging.Level) {
	r.min, r.max = min, max
	r.leveled.SetLevel(max, "")
}

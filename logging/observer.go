package logging

import (
	"github.com/sirupsen/logrus"

	"github.com/rony4d/go-csm/utils/arena"
)

// WatermarkObserver reports arenas crossing half capacity as warnings.
func WatermarkObserver(log logrus.FieldLogger) arena.Observer {
	return func(w arena.Watermark) {
		log.WithFields(logrus.Fields{
			"arena":    w.Name,
			"used":     w.Used,
			"capacity": w.Capacity,
		}).Warn("Arena more than half full")
	}
}

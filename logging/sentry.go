package logging

import (
	"fmt"
	"time"

	"github.com/evalphobia/logrus_sentry"
	"github.com/getsentry/raven-go"
	"github.com/sirupsen/logrus"
)

const sentryTimeout = 5 * time.Second

var sentryLevels = []logrus.Level{
	logrus.PanicLevel,
	logrus.FatalLevel,
	logrus.ErrorLevel,
}

func newSentryHook(dsn string) (*logrus_sentry.SentryHook, error) {
	client, err := raven.New(dsn)
	if err != nil {
		return nil, fmt.Errorf("sentry client: %w", err)
	}
	hook, err := logrus_sentry.NewWithClientSentryHook(client, sentryLevels)
	if err != nil {
		return nil, fmt.Errorf("sentry hook: %w", err)
	}
	hook.Timeout = sentryTimeout
	return hook, nil
}

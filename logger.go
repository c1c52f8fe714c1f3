package main

import (
	"io"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/9seconds/whereabouts/wherelib"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
)

type logger struct {
	base       zerolog.Logger
	lookupLog  zerolog.Logger
	storageLog zerolog.Logger
	submitLog  zerolog.Logger
}

func (l *logger) LookupError(ip net.IP, name string, err error) {
	l.lookupLog.Error().Str("provider", name).Stringer("ip", ip).Err(err).Msg("")
}

func (l *logger) StorageError(name string, err error) {
	l.storageLog.Error().Str("storage", name).Err(err).Msg("")
}

func (l *logger) Submitted(record *wherelib.Record, enriched bool) {
	l.submitLog.Info().
		Str("ip", record.IP).
		Bool("enriched", enriched).
		Bool("has_coordinates", record.Latitude != nil && record.Longitude != nil).
		Str("ip_country", record.IPCountry).
		Msg("Location was saved")
}

// accessLog wraps a handler with request logging.
func (l *logger) accessLog(handler http.Handler) http.Handler {
	accessLog := l.base.With().Str("event_name", "access").Logger()

	handler = hlog.AccessHandler(func(req *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(req).Info().
			Str("method", req.Method).
			Stringer("url", req.URL).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("")
	})(handler)
	handler = hlog.RemoteAddrHandler("remote_addr")(handler)
	handler = hlog.UserAgentHandler("user_agent")(handler)
	handler = hlog.RequestIDHandler("request_id", "X-Request-Id")(handler)
	handler = hlog.NewHandler(accessLog)(handler)

	return handler
}

func newLogger(writer io.Writer, debug bool) *logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	base := zerolog.New(writer).Level(level).With().Timestamp().Logger()

	return &logger{
		base:       base,
		lookupLog:  base.With().Str("event_name", "lookup").Logger(),
		storageLog: base.With().Str("event_name", "storage").Logger(),
		submitLog:  base.With().Str("event_name", "submit").Logger(),
	}
}

func newStderrLogger(debug bool) *logger {
	return newLogger(os.Stderr, debug)
}

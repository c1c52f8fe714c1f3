package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/9seconds/whereabouts/wherelib"
	"github.com/stretchr/testify/suite"
)

type LoggerTestSuite struct {
	suite.Suite

	buf *bytes.Buffer
	log *logger
}

func (suite *LoggerTestSuite) SetupTest() {
	suite.buf = &bytes.Buffer{}
	suite.log = newLogger(suite.buf, false)
}

func (suite *LoggerTestSuite) LastLine() map[string]interface{} {
	lines := strings.Split(strings.TrimSpace(suite.buf.String()), "\n")
	rv := map[string]interface{}{}

	suite.Require().NoError(json.Unmarshal([]byte(lines[len(lines)-1]), &rv))

	return rv
}

func (suite *LoggerTestSuite) TestLookupError() {
	suite.log.LookupError(net.ParseIP("1.2.3.4"), "ipapi", errors.New("timeout"))

	line := suite.LastLine()

	suite.Equal("lookup", line["event_name"])
	suite.Equal("error", line["level"])
	suite.Equal("ipapi", line["provider"])
	suite.Equal("1.2.3.4", line["ip"])
	suite.Equal("timeout", line["error"])
}

func (suite *LoggerTestSuite) TestStorageError() {
	suite.log.StorageError("csv", errors.New("disk is full"))

	line := suite.LastLine()

	suite.Equal("storage", line["event_name"])
	suite.Equal("csv", line["storage"])
}

func (suite *LoggerTestSuite) TestSubmitted() {
	suite.log.Submitted(&wherelib.Record{IP: "1.2.3.4", IPCountry: "Germany"}, true)

	line := suite.LastLine()

	suite.Equal("submit", line["event_name"])
	suite.Equal(true, line["enriched"])
	suite.Equal(false, line["has_coordinates"])
	suite.Equal("Germany", line["ip_country"])
}

func (suite *LoggerTestSuite) TestDebugIsFiltered() {
	suite.log.base.Debug().Msg("hidden")

	suite.Empty(suite.buf.String())
}

func (suite *LoggerTestSuite) TestAccessLog() {
	handler := suite.log.accessLog(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	req := httptest.NewRequest(http.MethodGet, "/records", nil)
	req.Header.Set("X-Request-Id", "abc")

	handler.ServeHTTP(httptest.NewRecorder(), req)

	line := suite.LastLine()

	suite.Equal("access", line["event_name"])
	suite.Equal("GET", line["method"])
	suite.Equal("/records", line["url"])
	suite.EqualValues(http.StatusTeapot, line["status"])
	suite.Contains(line, "request_id")
	suite.Contains(line, "remote_addr")
}

func TestLogger(t *testing.T) {
	suite.Run(t, &LoggerTestSuite{})
}

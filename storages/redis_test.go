package storages_test

import (
	"context"
	"testing"
	"time"

	"github.com/9seconds/whereabouts/storages"
	"github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/suite"
)

type RedisTestSuite struct {
	suite.Suite

	server *miniredis.Miniredis
	s      *storages.RedisStorage
}

func (suite *RedisTestSuite) SetupTest() {
	suite.server = miniredis.RunT(suite.T())

	s, err := storages.NewRedis(context.Background(),
		"redis://"+suite.server.Addr(),
		storages.DefaultRedisKey,
		zerolog.Nop())

	suite.Require().NoError(err)

	suite.s = s
}

func (suite *RedisTestSuite) TearDownTest() {
	suite.NoError(suite.s.Close())
}

func (suite *RedisTestSuite) TestName() {
	suite.Equal(storages.NameRedis, suite.s.Name())
}

func (suite *RedisTestSuite) TestListEmpty() {
	records, err := suite.s.ListAll(context.Background())

	suite.NoError(err)
	suite.Empty(records)
}

func (suite *RedisTestSuite) TestRoundTrip() {
	now := time.Now()
	first := makeRecord("1", now.Add(-time.Minute))
	second := makeRecord("2", now)
	second.Latitude = nil

	suite.NoError(suite.s.Append(context.Background(), first))
	suite.NoError(suite.s.Append(context.Background(), second))

	records, err := suite.s.ListAll(context.Background())

	suite.NoError(err)
	suite.Require().Len(records, 2)
	suite.Equal(*second, records[0])
	suite.Equal(*first, records[1])
}

func (suite *RedisTestSuite) TestBrokenValuesAreSkipped() {
	suite.NoError(suite.s.Append(context.Background(), makeRecord("1", time.Now())))

	_, err := suite.server.Lpush(storages.DefaultRedisKey, "{not json")
	suite.Require().NoError(err)

	records, err := suite.s.ListAll(context.Background())

	suite.NoError(err)
	suite.Len(records, 1)
}

func (suite *RedisTestSuite) TestServerIsGone() {
	suite.server.Close()

	suite.Error(suite.s.Append(context.Background(), makeRecord("1", time.Now())))

	_, err := suite.s.ListAll(context.Background())

	suite.Error(err)
}

func TestRedis(t *testing.T) {
	suite.Run(t, &RedisTestSuite{})
}

func TestRedisIncorrectURL(t *testing.T) {
	_, err := storages.NewRedis(context.Background(), "redis://host:port/db", "key", zerolog.Nop())

	if err == nil {
		t.Fatal("incorrect url has to be rejected")
	}
}

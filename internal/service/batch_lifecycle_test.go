package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/guttosm/volpulse/internal/crawler"
)

func TestCrawl_SessionLifecycle(t *testing.T) {
	ctrl := gomock.NewController(t)

	// Arrange: one session, fetched in request order, closed last.
	session := NewMockSession(ctrl)
	browser := NewMockBrowser(ctrl)
	gomock.InOrder(
		browser.EXPECT().Open(gomock.Any()).Return(session, nil),
		session.EXPECT().Fetch(gomock.Any(), "http://fake/hpg").Return(history(2)),
		session.EXPECT().Fetch(gomock.Any(), "http://fake/vnm").Return(nil),
		session.EXPECT().Close().Times(1),
	)

	// Act
	res, err := NewBatchService(browser, testConfig()).Crawl(context.Background(), []string{"HPG", "VNM"})

	// Assert
	require.NoError(t, err)
	require.Equal(t, 1, res.Count)
	require.Equal(t, "HPG", res.Data[0].Symbol)
}

func TestCrawl_SessionClosedWhenNothingFetched(t *testing.T) {
	ctrl := gomock.NewController(t)

	session := NewMockSession(ctrl)
	browser := NewMockBrowser(ctrl)
	browser.EXPECT().Open(gomock.Any()).Return(session, nil)
	session.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return([]crawler.Record{}).Times(3)
	session.EXPECT().Close().Times(1)

	res, err := NewBatchService(browser, testConfig()).Crawl(context.Background(), []string{"A", "B", "C"})
	require.NoError(t, err)
	require.Zero(t, res.Count)
}

func TestCrawl_OpenFailureFetchesNothing(t *testing.T) {
	ctrl := gomock.NewController(t)

	// No Fetch or Close expectations: any call fails the test.
	browser := NewMockBrowser(ctrl)
	browser.EXPECT().Open(gomock.Any()).Return(nil, errors.New("chrome failed to start"))

	_, err := NewBatchService(browser, testConfig()).Crawl(context.Background(), []string{"VNM"})
	require.ErrorContains(t, err, "open browser session")
	require.ErrorContains(t, err, "chrome failed to start")
}

func TestCrawl_EmptyBatch(t *testing.T) {
	ctrl := gomock.NewController(t)

	session := NewMockSession(ctrl)
	browser := NewMockBrowser(ctrl)
	browser.EXPECT().Open(gomock.Any()).Return(session, nil)
	session.EXPECT().Close()

	res, err := NewBatchService(browser, testConfig()).Crawl(context.Background(), []string{})
	require.NoError(t, err)
	require.Zero(t, res.Count)
	require.NotNil(t, res.Data)
}

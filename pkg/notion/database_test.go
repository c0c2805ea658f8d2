package notion

import (
	"context"
	"errors"
	"testing"

	"github.com/jomei/notionapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func oldestFirst(req *notionapi.DatabaseQueryRequest) bool {
	return len(req.Sorts) == 1 &&
		req.Sorts[0].Timestamp == notionapi.TimestampCreated &&
		req.Sorts[0].Direction == notionapi.SortOrderASC &&
		req.PageSize == MaxPageSize
}

func TestPagesInCreationOrder_SinglePage(t *testing.T) {
	mq := new(MockQuerier)
	ctx := context.Background()

	mq.On("QueryDatabase", ctx, "db-1", mock.MatchedBy(oldestFirst)).
		Return(&notionapi.DatabaseQueryResponse{
			Results: []notionapi.Page{{ID: "p1"}, {ID: "p2"}},
		}, nil).Once()

	pages, err := PagesInCreationOrder(ctx, mq, "db-1")
	require.NoError(t, err)
	assert.Len(t, pages, 2)
	mq.AssertExpectations(t)
}

func TestPagesInCreationOrder_FollowsCursor(t *testing.T) {
	mq := new(MockQuerier)
	ctx := context.Background()

	mq.On("QueryDatabase", ctx, "db-1", mock.MatchedBy(func(req *notionapi.DatabaseQueryRequest) bool {
		return oldestFirst(req) && req.StartCursor == ""
	})).Return(&notionapi.DatabaseQueryResponse{
		Results:    []notionapi.Page{{ID: "p1"}},
		HasMore:    true,
		NextCursor: notionapi.Cursor("cursor-abc"),
	}, nil).Once()

	mq.On("QueryDatabase", ctx, "db-1", mock.MatchedBy(func(req *notionapi.DatabaseQueryRequest) bool {
		return oldestFirst(req) && req.StartCursor == notionapi.Cursor("cursor-abc")
	})).Return(&notionapi.DatabaseQueryResponse{
		Results: []notionapi.Page{{ID: "p2"}},
	}, nil).Once()

	pages, err := PagesInCreationOrder(ctx, mq, "db-1")
	require.NoError(t, err)
	require.Len(t, pages, 2)
	assert.Equal(t, notionapi.ObjectID("p1"), pages[0].ID)
	assert.Equal(t, notionapi.ObjectID("p2"), pages[1].ID)
	mq.AssertExpectations(t)
}

func TestPagesInCreationOrder_StopsOnEmptyCursor(t *testing.T) {
	mq := new(MockQuerier)
	mq.On("QueryDatabase", mock.Anything, "db-1", mock.Anything).
		Return(&notionapi.DatabaseQueryResponse{HasMore: true}, nil).Once()

	pages, err := PagesInCreationOrder(context.Background(), mq, "db-1")
	require.NoError(t, err)
	assert.Empty(t, pages)
	mq.AssertExpectations(t)
}

func TestPagesInCreationOrder_Error(t *testing.T) {
	mq := new(MockQuerier)
	mq.On("QueryDatabase", mock.Anything, "db-1", mock.Anything).
		Return(nil, errors.New("boom")).Once()

	pages, err := PagesInCreationOrder(context.Background(), mq, "db-1")
	require.Error(t, err)
	assert.Nil(t, pages)
	assert.Contains(t, err.Error(), "boom")
}

func TestPagesInCreationOrder_RequiresID(t *testing.T) {
	_, err := PagesInCreationOrder(context.Background(), new(MockQuerier), "")
	assert.Error(t, err)
}

func TestPlainText(t *testing.T) {
	assert.Equal(t, "", PlainText(nil))
	assert.Equal(t, "Erie Hall", PlainText([]notionapi.RichText{
		{PlainText: "Erie "},
		{PlainText: "Hall"},
	}))
}

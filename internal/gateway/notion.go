package gateway

import (
	"context"

	"github.com/jomei/notionapi"
)

// PageSource is the upstream the gateway reads records from.
type PageSource interface {
	// QueryPageIDs lists every page in the database.
	QueryPageIDs(ctx context.Context, databaseID string) ([]string, error)
	PageProperties(ctx context.Context, pageID string) (notionapi.Properties, error)
}

type databaseQuerier interface {
	Query(ctx context.Context, id notionapi.DatabaseID, request *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error)
}

type pageGetter interface {
	Get(ctx context.Context, id notionapi.PageID) (*notionapi.Page, error)
}

// NotionSource reads pages through the Notion public API.
type NotionSource struct {
	databases databaseQuerier
	pages     pageGetter
	pageSize  int
}

func NewNotionSource(client *notionapi.Client) *NotionSource {
	return &NotionSource{
		databases: client.Database,
		pages:     client.Page,
		pageSize:  100,
	}
}

// NewNotionClient builds the API client for one process. The token is
// never read from the environment here.
func NewNotionClient(apiKey string) *notionapi.Client {
	return notionapi.NewClient(notionapi.Token(apiKey))
}

func (s *NotionSource) QueryPageIDs(ctx context.Context, databaseID string) ([]string, error) {
	request := &notionapi.DatabaseQueryRequest{PageSize: s.pageSize}

	var ids []string
	for {
		resp, err := s.databases.Query(ctx, notionapi.DatabaseID(databaseID), request)
		if err != nil {
			return nil, err
		}
		for _, page := range resp.Results {
			ids = append(ids, string(page.ID))
		}
		if !resp.HasMore || resp.NextCursor == "" {
			return ids, nil
		}
		request.StartCursor = resp.NextCursor
	}
}

func (s *NotionSource) PageProperties(ctx context.Context, pageID string) (notionapi.Properties, error) {
	page, err := s.pages.Get(ctx, notionapi.PageID(pageID))
	if err != nil {
		return nil, err
	}
	return page.Properties, nil
}

// Package notion keeps Flow and Page records as rows of two Notion
// databases.
//
// Flow database properties: Name (title), Project (rich text), Order (number).
// Page database properties: Name (title), Project (rich text), Flow (rich
// text holding the flow row id), Status (select).
package notion

import (
	"context"
	"fmt"
	"strings"

	"github.com/jomei/notionapi"

	"github.com/takak2166/appstruct/internal/logger"
	"github.com/takak2166/appstruct/internal/models"
)

const (
	propName    = "Name"
	propProject = "Project"
	propOrder   = "Order"
	propFlow    = "Flow"
	propStatus  = "Status"
)

// Client wraps the Notion API client
type Client struct {
	client  NotionClient
	flowsDB notionapi.DatabaseID
	pagesDB notionapi.DatabaseID
}

// New creates a Notion-backed entity client
func New(apiKey, flowsDB, pagesDB string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("notion API key is not set")
	}
	if flowsDB == "" || pagesDB == "" {
		return nil, fmt.Errorf("notion flow and page database IDs must both be set")
	}

	notionClient := notionapi.NewClient(notionapi.Token(apiKey))
	return &Client{
		client:  newNotionClientAdapter(notionClient),
		flowsDB: notionapi.DatabaseID(flowsDB),
		pagesDB: notionapi.DatabaseID(pagesDB),
	}, nil
}

// NewWithClient creates a Client over an existing NotionClient
func NewWithClient(client NotionClient, flowsDB, pagesDB string) *Client {
	return &Client{
		client:  client,
		flowsDB: notionapi.DatabaseID(flowsDB),
		pagesDB: notionapi.DatabaseID(pagesDB),
	}
}

// ListFlows returns the flow rows of a project
func (c *Client) ListFlows(ctx context.Context, projectID string) ([]models.Flow, error) {
	rows, err := c.queryProject(ctx, c.flowsDB, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to query flows: %w", err)
	}

	flows := make([]models.Flow, 0, len(rows))
	for _, row := range rows {
		flows = append(flows, models.Flow{
			ID:      string(row.ID),
			Name:    textOf(row.Properties[propName]),
			Project: textOf(row.Properties[propProject]),
			Order:   int(numberOf(row.Properties[propOrder])),
		})
	}
	return flows, nil
}

// CreateFlow adds a flow row
func (c *Client) CreateFlow(ctx context.Context, flow models.Flow) (models.Flow, error) {
	logger.Debug("Creating Notion flow row", map[string]interface{}{
		"name":    flow.Name,
		"project": flow.Project,
	})

	page, err := c.client.Page().Create(ctx, &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:       "database_id",
			DatabaseID: c.flowsDB,
		},
		Properties: notionapi.Properties{
			propName:    notionapi.TitleProperty{Title: richText(flow.Name)},
			propProject: notionapi.RichTextProperty{RichText: richText(flow.Project)},
			propOrder:   notionapi.NumberProperty{Number: float64(flow.Order)},
		},
	})
	if err != nil {
		return models.Flow{}, fmt.Errorf("failed to create flow %q: %w", flow.Name, err)
	}

	flow.ID = string(page.ID)
	return flow, nil
}

// DeleteFlow archives a flow row
func (c *Client) DeleteFlow(ctx context.Context, id string) error {
	if err := c.archive(ctx, id); err != nil {
		return fmt.Errorf("failed to delete flow %s: %w", id, err)
	}
	return nil
}

// ListPages returns the page rows of a project
func (c *Client) ListPages(ctx context.Context, projectID string) ([]models.Page, error) {
	rows, err := c.queryProject(ctx, c.pagesDB, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to query pages: %w", err)
	}

	pages := make([]models.Page, 0, len(rows))
	for _, row := range rows {
		pages = append(pages, models.Page{
			ID:      string(row.ID),
			Name:    textOf(row.Properties[propName]),
			Project: textOf(row.Properties[propProject]),
			Flow:    textOf(row.Properties[propFlow]),
			Status:  selectOf(row.Properties[propStatus]),
		})
	}
	return pages, nil
}

// CreatePage adds a page row
func (c *Client) CreatePage(ctx context.Context, page models.Page) (models.Page, error) {
	logger.Debug("Creating Notion page row", map[string]interface{}{
		"name": page.Name,
		"flow": page.Flow,
	})

	status := page.Status
	if status == "" {
		status = models.DefaultPageStatus
	}

	created, err := c.client.Page().Create(ctx, &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:       "database_id",
			DatabaseID: c.pagesDB,
		},
		Properties: notionapi.Properties{
			propName:    notionapi.TitleProperty{Title: richText(page.Name)},
			propProject: notionapi.RichTextProperty{RichText: richText(page.Project)},
			propFlow:    notionapi.RichTextProperty{RichText: richText(page.Flow)},
			propStatus:  notionapi.SelectProperty{Select: notionapi.Option{Name: status}},
		},
	})
	if err != nil {
		return models.Page{}, fmt.Errorf("failed to create page %q: %w", page.Name, err)
	}

	page.ID = string(created.ID)
	page.Status = status
	return page, nil
}

// DeletePage archives a page row
func (c *Client) DeletePage(ctx context.Context, id string) error {
	if err := c.archive(ctx, id); err != nil {
		return fmt.Errorf("failed to delete page %s: %w", id, err)
	}
	return nil
}

func (c *Client) archive(ctx context.Context, id string) error {
	_, err := c.client.Page().Update(ctx, notionapi.PageID(id), &notionapi.PageUpdateRequest{
		Properties: notionapi.Properties{},
		Archived:   true,
	})
	return err
}

// queryProject reads every row of db whose Project equals projectID,
// following pagination cursors
func (c *Client) queryProject(ctx context.Context, db notionapi.DatabaseID, projectID string) ([]notionapi.Page, error) {
	req := &notionapi.DatabaseQueryRequest{
		Filter: notionapi.PropertyFilter{
			Property: propProject,
			RichText: &notionapi.TextFilterCondition{Equals: projectID},
		},
	}

	var rows []notionapi.Page
	for {
		resp, err := c.client.Database().Query(ctx, db, req)
		if err != nil {
			return nil, err
		}
		rows = append(rows, resp.Results...)
		if !resp.HasMore || resp.NextCursor == "" {
			return rows, nil
		}
		req.StartCursor = resp.NextCursor
	}
}

func richText(content string) []notionapi.RichText {
	return []notionapi.RichText{
		{
			Text: &notionapi.Text{
				Content: content,
			},
		},
	}
}

func plainText(parts []notionapi.RichText) string {
	var b strings.Builder
	for _, rt := range parts {
		switch {
		case rt.PlainText != "":
			b.WriteString(rt.PlainText)
		case rt.Text != nil:
			b.WriteString(rt.Text.Content)
		}
	}
	return b.String()
}

// Properties decoded from API responses are pointers; values appear when
// rows are built locally.
func textOf(p notionapi.Property) string {
	switch v := p.(type) {
	case *notionapi.TitleProperty:
		return plainText(v.Title)
	case notionapi.TitleProperty:
		return plainText(v.Title)
	case *notionapi.RichTextProperty:
		return plainText(v.RichText)
	case notionapi.RichTextProperty:
		return plainText(v.RichText)
	}
	return ""
}

func numberOf(p notionapi.Property) float64 {
	switch v := p.(type) {
	case *notionapi.NumberProperty:
		return v.Number
	case notionapi.NumberProperty:
		return v.Number
	}
	return 0
}

func selectOf(p notionapi.Property) string {
	switch v := p.(type) {
	case *notionapi.SelectProperty:
		return v.Select.Name
	case notionapi.SelectProperty:
		return v.Select.Name
	}
	return ""
}

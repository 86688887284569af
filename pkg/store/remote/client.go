// Package remote implements the entity backends on top of the CMS RPC
// interface.
//
// Every entity maps to an RPC namespace named after its collection:
//
//	suppliers.list     {limit, offset, filter}
//	suppliers.get      {id}
//	suppliers.create   {data}
//	suppliers.update   {id, data}
//	suppliers.delete   {id}
//	due_diligence_statements.submit {id}
//
// A call rejected with 401 or 403 clears the session credentials.
package remote

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/forestline/eudrtrack/internal/codec"
	"github.com/forestline/eudrtrack/pkg/auth"
	"github.com/forestline/eudrtrack/pkg/connection"
	"github.com/forestline/eudrtrack/pkg/models"
)

// Config describes how to reach the CMS.
type Config struct {
	// URL is the CMS base URL. An empty URL yields a client whose calls
	// fail with ErrNotConfigured.
	URL string
	// Transport is "http" (default) or "ws".
	Transport string
	// Codec is "json" (default) or "cbor".
	Codec   string
	Timeout time.Duration
}

// Client holds one namespace per entity.
type Client struct {
	conn  connection.Connection
	creds auth.Credentials
	log   zerolog.Logger

	Organizations   *Namespace[models.Organization, models.OrganizationPatch]
	Customers       *Namespace[models.Customer, models.CustomerPatch]
	Products        *Namespace[models.Product, models.ProductPatch]
	Suppliers       *Namespace[models.Supplier, models.SupplierPatch]
	RawMaterials    *Namespace[models.RawMaterial, models.RawMaterialPatch]
	Origins         *Namespace[models.Origin, models.OriginPatch]
	RiskAssessments *Namespace[models.RiskAssessment, models.RiskAssessmentPatch]
	Statements      *Statements
}

// Dial opens a connection as described by cfg and presents the token of
// creds on every call.
func Dial(cfg Config, creds auth.Credentials, log zerolog.Logger) (*Client, error) {
	if cfg.URL == "" {
		return New(nil, creds, log), nil
	}

	c, err := codec.ByName(cfg.Codec)
	if err != nil {
		return nil, fmt.Errorf("remote: %w", err)
	}
	connCfg := connection.Config{
		BaseURL: cfg.URL,
		Codec:   c,
		Timeout: cfg.Timeout,
		Logger:  log,
	}
	if creds != nil {
		connCfg.Token = creds.Token
	}

	var conn connection.Connection
	switch cfg.Transport {
	case "", "http":
		conn = connection.NewHTTPConnection(connCfg)
	case "ws", "websocket":
		conn = connection.NewWebSocketConnection(connCfg)
	default:
		return nil, fmt.Errorf("remote: unknown transport %q", cfg.Transport)
	}
	return New(conn, creds, log), nil
}

// New wraps an established connection. conn may be nil; creds may be nil
// when the CMS needs no authentication.
func New(conn connection.Connection, creds auth.Credentials, log zerolog.Logger) *Client {
	c := &Client{conn: conn, creds: creds, log: log}
	c.Organizations = newNamespace[models.Organization, models.OrganizationPatch](c, models.Organizations)
	c.Customers = newNamespace[models.Customer, models.CustomerPatch](c, models.Customers)
	c.Products = newNamespace[models.Product, models.ProductPatch](c, models.Products)
	c.Suppliers = newNamespace[models.Supplier, models.SupplierPatch](c, models.Suppliers)
	c.RawMaterials = newNamespace[models.RawMaterial, models.RawMaterialPatch](c, models.RawMaterials)
	c.Origins = newNamespace[models.Origin, models.OriginPatch](c, models.Origins)
	c.RiskAssessments = newNamespace[models.RiskAssessment, models.RiskAssessmentPatch](c, models.RiskAssessments)
	c.Statements = &Statements{newNamespace[models.DueDiligenceStatement, models.DueDiligenceStatementPatch](c, models.DueDiligenceStatements)}
	return c
}

// Configured reports whether the client has a connection.
func (c *Client) Configured() bool {
	return c.conn != nil
}

func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

// call sends one request and decodes its result into R.
func call[R any](ctx context.Context, c *Client, method string, params map[string]any) (*R, error) {
	if c.conn == nil {
		return nil, ErrNotConfigured
	}
	if c.creds != nil && c.creds.Token() != "" && !c.creds.Valid() {
		c.log.Warn().Str("method", method).Msg("session expired, clearing credentials")
		c.creds.Clear()
		return nil, &Error{Method: method, Code: http.StatusUnauthorized, Message: "session expired"}
	}

	c.log.Debug().Str("method", method).Msg("rpc call")
	res, err := connection.Send[R](ctx, c.conn, method, params)
	if err == nil {
		return res, nil
	}

	rerr := newError(method, err)
	if rerr.Is(ErrUnauthorized) && c.creds != nil {
		c.log.Warn().Str("method", method).Int("code", rerr.Code).Msg("credentials rejected, clearing")
		c.creds.Clear()
	}
	return nil, rerr
}

// Package bridge talks to an automation bridge over a websocket.
//
// The bridge runs next to the application that owns the notebooks and
// forwards each request to its automation interface. Requests and responses
// are JSON messages; XML documents are carried as strings.
package bridge

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/akeil/onetool"
	"github.com/akeil/onetool/internal/logging"
)

// DefaultTimeout is the time allowed for a single request and its response.
const DefaultTimeout = 30 * time.Second

var _ onetool.Collaborator = (*Client)(nil)

// Client is a onetool.Collaborator that forwards every call to a bridge.
//
// Calls are serialized; a Client can be shared between goroutines.
type Client struct {
	url     string
	ns      string
	timeout time.Duration
	mx      sync.Mutex
	conn    *websocket.Conn
}

// Dial connects to the bridge at url.
//
// The token, if not empty, is sent as a bearer token. The namespace for the
// given interface version is confirmed with the bridge; if the bridge reports
// a different one, the bridge wins.
func Dial(url, token string, version onetool.Version) (*Client, error) {
	ns, err := version.Namespace()
	if err != nil {
		return nil, err
	}

	logging.Info("Connecting to bridge at %q", url)
	header := http.Header{}
	if token != "" {
		header.Set("Authorization", "Bearer "+token)
	}
	conn, res, err := websocket.DefaultDialer.Dial(url, header)
	if err != nil {
		if res != nil {
			return nil, fmt.Errorf("websocket connection failed with status %v: %w", res.StatusCode, err)
		}
		return nil, fmt.Errorf("websocket connection failed: %w", err)
	}

	c := &Client{
		url:     url,
		ns:      string(ns),
		timeout: DefaultTimeout,
		conn:    conn,
	}

	var remote string
	err = c.call(methodNamespace, namespaceParams{Version: version}, &remote)
	if err != nil {
		c.Close()
		return nil, err
	}
	if remote != "" && remote != c.ns {
		logging.Warning("Bridge uses namespace %q instead of %q", remote, c.ns)
		c.ns = remote
	}

	return c, nil
}

// SetTimeout changes the time allowed per request; zero disables it.
func (c *Client) SetTimeout(d time.Duration) {
	c.mx.Lock()
	defer c.mx.Unlock()
	c.timeout = d
}

func (c *Client) Namespace() string {
	return c.ns
}

func (c *Client) GetHierarchy(startNodeID string, scope onetool.HierarchyScope) ([]byte, error) {
	var xml string
	err := c.call(methodGetHierarchy, hierarchyParams{startNodeID, scope}, &xml)
	if err != nil {
		return nil, err
	}
	return []byte(xml), nil
}

func (c *Client) GetPageContent(pageID string, info onetool.PageInfo) ([]byte, error) {
	var xml string
	err := c.call(methodGetPageContent, pageParams{pageID, info}, &xml)
	if err != nil {
		return nil, err
	}
	return []byte(xml), nil
}

func (c *Client) CreateNewPage(sectionID string) error {
	return c.call(methodCreateNewPage, sectionParams{sectionID}, nil)
}

func (c *Client) UpdatePageContent(xml []byte) error {
	return c.call(methodUpdatePageContent, updateParams{string(xml)}, nil)
}

// Close sends a close message and closes the connection.
func (c *Client) Close() error {
	c.mx.Lock()
	defer c.mx.Unlock()
	if c.conn == nil {
		return nil
	}

	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	err := c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	if err != nil {
		logging.Debug("Write close message: %v", err)
	}
	err = c.conn.Close()
	c.conn = nil
	logging.Info("Disconnected from bridge at %q", c.url)
	return err
}

// call sends one request and waits for its response.
// The result, if not nil, receives the decoded result.
func (c *Client) call(method string, params, result interface{}) error {
	c.mx.Lock()
	defer c.mx.Unlock()
	if c.conn == nil {
		return fmt.Errorf("bridge connection is closed")
	}

	p, err := json.Marshal(params)
	if err != nil {
		return err
	}
	req := request{
		ID:     uuid.New().String(),
		Method: method,
		Params: p,
	}

	logging.Debug("Bridge request %v %v", req.ID, method)
	if c.timeout > 0 {
		c.conn.SetWriteDeadline(time.Now().Add(c.timeout))
	}
	err = c.conn.WriteJSON(&req)
	if err != nil {
		return fmt.Errorf("send %v: %w", method, err)
	}

	var res response
	if c.timeout > 0 {
		c.conn.SetReadDeadline(time.Now().Add(c.timeout))
	}
	err = c.conn.ReadJSON(&res)
	if err != nil {
		return fmt.Errorf("receive %v: %w", method, err)
	}

	if res.ID != req.ID {
		return fmt.Errorf("response id %q does not match request %q", res.ID, req.ID)
	}
	if res.Error != nil {
		return res.Error.err(method)
	}
	if result != nil && len(res.Result) > 0 {
		err = json.Unmarshal(res.Result, result)
		if err != nil {
			return fmt.Errorf("decode result of %v: %w", method, err)
		}
	}
	return nil
}

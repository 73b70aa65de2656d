package socket

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"
)

// Client connects to the acm daemon over a Unix socket.
type Client struct {
	sockPath string
}

// NewClient creates a client that will connect to the given socket path.
func NewClient(sockPath string) *Client {
	return &Client{sockPath: sockPath}
}

// Scan sends a scan request and returns the result.
func (c *Client) Scan(text string) (*ScanResult, error) {
	resp, err := c.call(Request{
		ID:     "1",
		Method: MethodScan,
		Params: ScanParams{Text: text},
	})
	if err != nil {
		return nil, err
	}
	var result ScanResult
	if err := decodeParams(resp.Result, &result); err != nil {
		return nil, fmt.Errorf("unmarshal result: %w", err)
	}
	return &result, nil
}

// Add registers a keyword in the daemon's dictionary.
func (c *Client) Add(keyword string) (bool, error) {
	resp, err := c.call(Request{
		ID:     "1",
		Method: MethodAdd,
		Params: KeywordParams{Keyword: keyword},
	})
	if err != nil {
		return false, err
	}
	var result KeywordResult
	if err := decodeParams(resp.Result, &result); err != nil {
		return false, fmt.Errorf("unmarshal result: %w", err)
	}
	return result.Changed, nil
}

// Remove unregisters a keyword from the daemon's dictionary.
func (c *Client) Remove(keyword string) (bool, error) {
	resp, err := c.call(Request{
		ID:     "1",
		Method: MethodRemove,
		Params: KeywordParams{Keyword: keyword},
	})
	if err != nil {
		return false, err
	}
	var result KeywordResult
	if err := decodeParams(resp.Result, &result); err != nil {
		return false, fmt.Errorf("unmarshal result: %w", err)
	}
	return result.Changed, nil
}

// Keywords returns the daemon's current keyword list.
func (c *Client) Keywords() (*KeywordsResult, error) {
	resp, err := c.call(Request{
		ID:     "1",
		Method: MethodKeywords,
	})
	if err != nil {
		return nil, err
	}
	var result KeywordsResult
	if err := decodeParams(resp.Result, &result); err != nil {
		return nil, fmt.Errorf("unmarshal result: %w", err)
	}
	return &result, nil
}

// Health sends a health check request.
func (c *Client) Health() (*HealthResult, error) {
	resp, err := c.call(Request{
		ID:     "1",
		Method: MethodHealth,
	})
	if err != nil {
		return nil, err
	}
	var result HealthResult
	if err := decodeParams(resp.Result, &result); err != nil {
		return nil, fmt.Errorf("unmarshal result: %w", err)
	}
	return &result, nil
}

// Shutdown sends a shutdown request to the daemon.
func (c *Client) Shutdown() error {
	_, err := c.call(Request{
		ID:     "1",
		Method: MethodShutdown,
	})
	return err
}

// Ping checks if the daemon is reachable.
func (c *Client) Ping() bool {
	conn, err := net.DialTimeout("unix", c.sockPath, 500*time.Millisecond)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

func (c *Client) call(req Request) (*Response, error) {
	return c.callWithTimeout(req, 5*time.Second)
}

func (c *Client) callWithTimeout(req Request, timeout time.Duration) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.sockPath, 2*time.Second)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	defer conn.Close()

	// Deadline covers the whole request/response
	conn.SetDeadline(time.Now().Add(timeout))

	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	data = append(data, '\n')
	if _, err := conn.Write(data); err != nil {
		return nil, fmt.Errorf("write: %w", err)
	}

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read: %w", err)
		}
		return nil, fmt.Errorf("empty response")
	}

	var resp Response
	if err := json.Unmarshal(scanner.Bytes(), &resp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("server error: %s", resp.Error)
	}
	return &resp, nil
}

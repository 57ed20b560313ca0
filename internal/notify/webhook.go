package notify

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/go-faster/jx"
)

const maxResponseSize = 64 << 10

// postJSON posts body and returns the response payload. Non-2xx responses are errors.
func postJSON(ctx context.Context, client *http.Client, url string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("client.Do: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return data, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return data, nil
}

// channelStatus is the application-level verdict carried in a channel response body.
type channelStatus struct {
	Code    int
	Message string
}

// decodeStatus reads codeField (integer) and msgField (string) from a JSON object.
// A response without codeField is an error: HTTP 200 alone is not a confirmation.
func decodeStatus(data []byte, codeField, msgField string) (channelStatus, error) {
	var (
		st    channelStatus
		found bool
	)
	err := jx.DecodeBytes(data).ObjBytes(func(d *jx.Decoder, key []byte) error {
		switch string(key) {
		case codeField:
			v, err := d.Int()
			if err != nil {
				return err
			}
			st.Code = v
			found = true
			return nil
		case msgField:
			if d.Next() != jx.String {
				return d.Skip()
			}
			v, err := d.Str()
			if err != nil {
				return err
			}
			st.Message = v
			return nil
		default:
			return d.Skip()
		}
	})
	if err != nil {
		return st, fmt.Errorf("decode response: %w", err)
	}
	if !found {
		return st, fmt.Errorf("response has no %q field", codeField)
	}
	return st, nil
}

func encodeStrings(e *jx.Encoder, values []string) {
	e.ArrStart()
	for _, v := range values {
		e.Str(v)
	}
	e.ArrEnd()
}

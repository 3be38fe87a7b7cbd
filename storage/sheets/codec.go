package sheets

import (
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"

	"github.com/trezcool/huda/core/sheet"
)

// decodeRows reads a `[{col: value}, ...]` or `{"error": "..."}` body.
func decodeRows(name string, body []byte) ([]sheet.Row, error) {
	var payload interface{}
	if err := sonic.Unmarshal(body, &payload); err != nil {
		return nil, &sheet.FetchError{Sheet: name, Err: errors.Wrap(err, "decoding body")}
	}

	switch v := payload.(type) {
	case []interface{}:
		rows := make([]sheet.Row, 0, len(v))
		for i, item := range v {
			obj, ok := item.(map[string]interface{})
			if !ok {
				return nil, &sheet.FetchError{Sheet: name, Err: errors.Wrapf(errUnexpectedBody, "row %d is not an object", i)}
			}
			row := make(sheet.Row, len(obj))
			for col, val := range obj {
				row[col] = cellString(val)
			}
			rows = append(rows, row)
		}
		return rows, nil
	case map[string]interface{}:
		if msg, ok := v["error"]; ok {
			return nil, &sheet.RemoteError{Sheet: name, Message: cellString(msg)}
		}
	}
	return nil, &sheet.FetchError{Sheet: name, Err: errors.Wrapf(errUnexpectedBody, "%s", truncate(string(body), 200))}
}

// cellString renders a decoded JSON scalar the way the sheet displays it.
func cellString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		b, err := sonic.Marshal(val)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// ParseAck classifies a write response body.
//   - {"success": true} -> success
//   - {"success": false, ...} or {"error": "..."} -> failure
//   - anything else (including raw text) -> unrecognized
func ParseAck(body []byte) sheet.Ack {
	raw := string(body)

	var payload map[string]interface{}
	if err := sonic.Unmarshal(body, &payload); err != nil || payload == nil {
		return sheet.Unrecognized(raw)
	}
	if msg, ok := payload["error"]; ok {
		return sheet.Failure(cellString(msg), raw)
	}
	success, ok := payload["success"].(bool)
	if !ok {
		return sheet.Unrecognized(raw)
	}
	if success {
		return sheet.Success(raw)
	}
	reason := strings.TrimSpace(cellString(payload["message"]))
	if reason == "" {
		reason = "write rejected"
	}
	return sheet.Failure(reason, raw)
}

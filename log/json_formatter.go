package log

import (
	"bytes"
	"time"

	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
)

// JSONFormatter writes one JSON object per entry. Fields are flattened
// next to time, level and msg.
type JSONFormatter struct {
	TimestampFormat string
}

func (f *JSONFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	out := make(map[string]interface{}, len(entry.Data)+3)
	for k, v := range entry.Data {
		out[k] = jsonValue(v)
	}

	out[logrus.FieldKeyTime] = entry.Time.Format(f.TimestampFormat)
	out[logrus.FieldKeyLevel] = entry.Level.String()
	out[logrus.FieldKeyMsg] = entry.Message

	buf := entry.Buffer
	if buf == nil {
		buf = &bytes.Buffer{}
	}
	if err := json.NewEncoder(buf).Encode(out); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// jsonValue turns values that marshal badly into their readable form.
func jsonValue(v interface{}) interface{} {
	switch v := v.(type) {
	case error:
		return v.Error()
	case time.Duration:
		return v.String()
	default:
		return v
	}
}

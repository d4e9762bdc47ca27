package httputil

import (
	"errors"
	"net/http"
	"reflect"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/TykTechnologies/kvrouter/request"
)

// AccessLogRecord is a representation of a transaction log in the router
type AccessLogRecord struct {
	ClientRemoteAddr string
	ClientIP         string
	Endpoint         string
	Host             string
	Latency          int64
	Method           string
	Protocol         string
	RequestURI       string
	StatusCode       int
	UserAgent        string
}

// Fill will populate the AccessLogRecord from the request and the status
// written for it. Latency is recorded in milliseconds.
func (a *AccessLogRecord) Fill(latency time.Duration, r *http.Request, statusCode int, endpoint string) error {
	if r == nil {
		return errors.New("HTTP request data cannot be retrieved")
	}

	a.ClientRemoteAddr = r.RemoteAddr
	a.ClientIP = request.ClientIP(r)
	a.Endpoint = endpoint
	a.Host = r.Host
	a.Latency = latency.Milliseconds()
	a.Method = r.Method
	a.Protocol = r.Proto
	a.RequestURI = r.RequestURI
	a.StatusCode = statusCode
	a.UserAgent = r.UserAgent()

	return nil
}

// Logger provides a conversion of AccessLogRecord to a logrus.Fields object used for logging
func (a *AccessLogRecord) Logger(log *logrus.Logger) *logrus.Entry {
	fields := logrus.Fields{}

	// Add prefix for logger
	fields["prefix"] = "access-log"

	v := reflect.ValueOf(a).Elem()
	typeOfA := v.Type()

	for i := 0; i < v.NumField(); i++ {
		fields[typeOfA.Field(i).Name] = v.Field(i).Interface()
	}

	return log.WithFields(fields)
}

// LogTransaction prints the corresponding transaction log to STDOUT
func (a *AccessLogRecord) LogTransaction(log *logrus.Logger) {
	a.Logger(log).Info()
}

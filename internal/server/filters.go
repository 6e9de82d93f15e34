package server

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/emicklei/go-restful/v3"
	"github.com/google/uuid"

	"github.com/KYD-04/Home-Files/internal/metrics"
)

const requestIDHeader = "X-Request-ID"

// corsFilter marks every response as readable from any origin and answers
// preflight requests without routing them
func corsFilter(req *restful.Request, resp *restful.Response, chain *restful.FilterChain) {
	resp.AddHeader("Access-Control-Allow-Origin", "*")
	resp.AddHeader("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
	resp.AddHeader("Access-Control-Allow-Headers", "Content-Type, Authorization")

	if req.Request.Method == http.MethodOptions {
		resp.WriteHeader(http.StatusOK)
		return
	}
	chain.ProcessFilter(req, resp)
}

// requestFilter logs every request tagged with its profile, assigns a request
// id and records request metrics
func requestFilter(profile string) restful.FilterFunction {
	return func(req *restful.Request, resp *restful.Response, chain *restful.FilterChain) {
		start := time.Now()

		id := req.Request.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		resp.AddHeader(requestIDHeader, id)

		url := req.Request.URL.Path
		if req.Request.URL.RawQuery != "" {
			url += "?" + req.Request.URL.RawQuery
		}
		log.Info("[%s] %s %s %s", profile, req.Request.Method, url, req.Request.Proto)

		if log.IsDebugEnabled() && len(req.Request.Header) > 0 {
			headers := make([]string, 0, len(req.Request.Header))
			for name, values := range req.Request.Header {
				headers = append(headers, fmt.Sprintf("%s: %s", name, values[0]))
			}
			log.Debug("[%s] Request %s headers: %s", profile, id, strings.Join(headers, ", "))
		}

		chain.ProcessFilter(req, resp)

		route := req.SelectedRoutePath()
		if route == "" {
			route = "unmatched"
		}
		status := resp.StatusCode()
		metrics.RecordRequest(profile, req.Request.Method, route, status, time.Since(start))
		log.Debug("[%s] Request %s completed with status %d in %v", profile, id, status, time.Since(start))
	}
}

package api

import (
	"github.com/emicklei/go-restful/v3"

	"github.com/KYD-04/Home-Files/internal/version"
	"github.com/KYD-04/Home-Files/pkg/share"
)

// Capability names one operation a profile may expose
type Capability string

const (
	CapViewAll        Capability = "view-all"
	CapViewExisting   Capability = "view-existing"
	CapList           Capability = "list"
	CapAdd            Capability = "add"
	CapRemove         Capability = "remove"
	CapDownload       Capability = "download"
	CapDownloadFolder Capability = "download-folder"
	CapUpload         Capability = "upload"
	CapShutdown       Capability = "shutdown"
	CapEvents         Capability = "events"
	CapVersion        Capability = "version"
	CapMetrics        Capability = "metrics"
)

// AdminCapabilities is the full surface served on the loopback listener
var AdminCapabilities = []Capability{
	CapViewAll, CapList, CapAdd, CapRemove, CapDownload, CapDownloadFolder,
	CapUpload, CapShutdown, CapEvents, CapVersion, CapMetrics,
}

// PublicCapabilities omits registry mutation and metrics
var PublicCapabilities = []Capability{
	CapViewExisting, CapList, CapDownload, CapDownloadFolder,
	CapUpload, CapShutdown, CapEvents, CapVersion,
}

type routeFunc func(ws *restful.WebService, h *ShareHandler) *restful.RouteBuilder

// routes maps each capability to the route it enables
var routes = map[Capability]routeFunc{
	CapViewAll: func(ws *restful.WebService, h *ShareHandler) *restful.RouteBuilder {
		return ws.GET("/").To(h.AdminIndex).
			Doc("render every shared entry").
			Returns(200, "OK", nil)
	},
	CapViewExisting: func(ws *restful.WebService, h *ShareHandler) *restful.RouteBuilder {
		return ws.GET("/").To(h.PublicIndex).
			Doc("render shared entries that exist").
			Returns(200, "OK", nil)
	},
	CapList: func(ws *restful.WebService, h *ShareHandler) *restful.RouteBuilder {
		return ws.GET("/api/files").To(h.ListFiles).
			Doc("list and refresh shared entries").
			Produces(restful.MIME_JSON).
			Returns(200, "OK", []share.Entry{}).
			Returns(500, "Internal Server Error", share.Error{})
	},
	CapAdd: func(ws *restful.WebService, h *ShareHandler) *restful.RouteBuilder {
		return ws.POST("/api/add-file").To(h.AddFile).
			Doc("share a filesystem path").
			Reads(share.AddParams{}).
			Consumes(restful.MIME_JSON).
			Produces(restful.MIME_JSON).
			Returns(201, "Created", share.AddResult{}).
			Returns(200, "Already shared", share.AddResult{}).
			Returns(400, "Bad Request", share.Error{}).
			Returns(500, "Internal Server Error", share.Error{})
	},
	CapRemove: func(ws *restful.WebService, h *ShareHandler) *restful.RouteBuilder {
		return ws.DELETE("/api/remove-file/{id}").To(h.RemoveFile).
			Doc("stop sharing an entry").
			Param(ws.PathParameter("id", "identifier of the entry").DataType("integer")).
			Produces(restful.MIME_JSON).
			Returns(200, "OK", share.MessageResult{}).
			Returns(404, "Not Found", share.Error{}).
			Returns(500, "Internal Server Error", share.Error{})
	},
	CapDownload: func(ws *restful.WebService, h *ShareHandler) *restful.RouteBuilder {
		return ws.GET("/download/{id}").To(h.DownloadFile).
			Doc("download a shared file").
			Param(ws.PathParameter("id", "identifier of the entry").DataType("integer")).
			Notes("The response Content-Type is detected from the file content.").
			Returns(200, "OK", nil).
			Returns(404, "Not Found", share.Error{})
	},
	CapDownloadFolder: func(ws *restful.WebService, h *ShareHandler) *restful.RouteBuilder {
		return ws.GET("/download-folder/{id}").To(h.DownloadFolder).
			Doc("download a shared folder as a zip archive").
			Param(ws.PathParameter("id", "identifier of the entry").DataType("integer")).
			Returns(200, "OK", nil).
			Returns(404, "Not Found", share.Error{}).
			Returns(500, "Internal Server Error", share.Error{})
	},
	CapUpload: func(ws *restful.WebService, h *ShareHandler) *restful.RouteBuilder {
		return ws.POST("/upload").To(h.Upload).
			Doc("upload a file").
			Param(ws.FormParameter("file", "file content").DataType("file")).
			Produces(restful.MIME_JSON).
			Returns(201, "Created", share.UploadResult{}).
			Returns(400, "Bad Request", share.Error{}).
			Returns(413, "Request Entity Too Large", share.Error{}).
			Returns(500, "Internal Server Error", share.Error{})
	},
	CapShutdown: func(ws *restful.WebService, h *ShareHandler) *restful.RouteBuilder {
		return ws.POST("/shutdown").To(h.Shutdown).
			Doc("stop the server").
			Produces(restful.MIME_JSON).
			Returns(200, "OK", share.MessageResult{})
	},
	CapEvents: func(ws *restful.WebService, h *ShareHandler) *restful.RouteBuilder {
		return ws.GET("/api/events").To(h.Events).
			Doc("stream registry changes over a websocket").
			Returns(101, "Switching Protocols", nil)
	},
	CapVersion: func(ws *restful.WebService, h *ShareHandler) *restful.RouteBuilder {
		return ws.GET("/api/version").To(h.Version).
			Doc("get server version information").
			Produces(restful.MIME_JSON).
			Returns(200, "OK", version.Info{})
	},
	CapMetrics: func(ws *restful.WebService, h *ShareHandler) *restful.RouteBuilder {
		return ws.GET("/metrics").To(h.Metrics).
			Doc("prometheus metrics").
			Returns(200, "OK", nil)
	},
}

// RegisterRoutes registers the routes enabled by caps
func RegisterRoutes(ws *restful.WebService, handler *ShareHandler, caps []Capability) {
	for _, c := range caps {
		build, ok := routes[c]
		if !ok {
			log.Warn("Unknown capability %q ignored", c)
			continue
		}
		ws.Route(build(ws, handler))
	}
}

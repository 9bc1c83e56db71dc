package handler

import (
	"encoding/xml"
	"errors"
	"net/http"
	"reflect"

	"github.com/elnormous/contenttype"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/fitness-records/internal/model"
	"github.com/iliyamo/fitness-records/internal/repository"
)

var (
	jsonMediaType    = contenttype.NewMediaType("application/json")
	xmlMediaType     = contenttype.NewMediaType("application/xml")
	textXMLMediaType = contenttype.NewMediaType("text/xml")

	offeredMediaTypes = []contenttype.MediaType{jsonMediaType, xmlMediaType, textXMLMediaType}
)

// defaultMessages fill in the envelope message when a handler has nothing
// more specific to say.
var defaultMessages = map[int]string{
	http.StatusOK:                  "Success 200",
	http.StatusCreated:             "Success 201, Resource Created",
	http.StatusBadRequest:          "Error 400, Bad Request",
	http.StatusUnauthorized:        "Error 401, Authentication Required",
	http.StatusForbidden:           "Error 403, Forbidden Resource",
	http.StatusNotFound:            "Error 404, Resource Not Found",
	http.StatusMethodNotAllowed:    "Error 405, Request Not Supported",
	http.StatusConflict:            "Error 409, Resource Conflict",
	http.StatusTooManyRequests:     "Error 429, Too Many Requests",
	http.StatusInternalServerError: "Error 500, Internal Server Error",
}

// DefaultMessage returns the standard message for an HTTP status.
func DefaultMessage(status int) string {
	if m, ok := defaultMessages[status]; ok {
		return m
	}
	return http.StatusText(status)
}

// envelope is the body of every response, JSON or XML.
type envelope struct {
	XMLName xml.Name `json:"-" xml:"response"`
	Status  int      `json:"status" xml:"status"`
	Message string   `json:"message" xml:"message"`
	Data    any      `json:"data,omitempty" xml:"data,omitempty"`
}

// xmlItems wraps list data so each element is written as <item>.
type xmlItems struct {
	Items []any `xml:"item"`
}

func xmlData(data any) any {
	if data == nil {
		return nil
	}
	v := reflect.ValueOf(data)
	if v.Kind() != reflect.Slice {
		return data
	}
	items := make([]any, v.Len())
	for i := range items {
		items[i] = v.Index(i).Interface()
	}
	return xmlItems{Items: items}
}

// wantsXML reports whether the client prefers an XML representation.
// Anything unparseable or absent falls back to JSON.
func wantsXML(r *http.Request) bool {
	if r.Header.Get(echo.HeaderAccept) == "" {
		return false
	}
	mt, _, err := contenttype.GetAcceptableMediaType(r, offeredMediaTypes)
	if err != nil {
		return false
	}
	return mt.Subtype == "xml"
}

// respond writes the envelope.  Cacheable responses carry
// Cache-Control: max-age=60, everything else no-store.
func respond(c echo.Context, status int, cacheable bool, message string, data any) error {
	if message == "" {
		message = DefaultMessage(status)
	}
	if cacheable {
		c.Response().Header().Set(echo.HeaderCacheControl, "max-age=60")
	} else {
		c.Response().Header().Set(echo.HeaderCacheControl, "no-store")
	}
	env := envelope{Status: status, Message: message, Data: data}
	if c.Request().Method == http.MethodHead {
		return c.NoContent(status)
	}
	if wantsXML(c.Request()) {
		env.Data = xmlData(data)
		return c.XML(status, env)
	}
	return c.JSON(status, env)
}

// read answers a successful GET.
func read(c echo.Context, data any) error {
	return respond(c, http.StatusOK, true, "", data)
}

// done answers a successful mutation.
func done(c echo.Context, message string, data any) error {
	return respond(c, http.StatusOK, false, message, data)
}

func created(c echo.Context, message string, data any) error {
	return respond(c, http.StatusCreated, false, message, data)
}

// ErrorHandler renders every error that reaches echo in the envelope.
// Validation failures are 400, missing rows 404 and duplicate usernames
// 409.  Any other failure is logged and answered with a generic 500.
func ErrorHandler(log logrus.FieldLogger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		status, message := http.StatusInternalServerError, ""

		var he *echo.HTTPError
		var ve *model.ValidationError
		switch {
		case errors.As(err, &he):
			status = he.Code
			if m, ok := he.Message.(string); ok && m != http.StatusText(status) {
				message = m
			}
			if status >= http.StatusInternalServerError {
				log.WithError(err).WithField("path", c.Request().URL.Path).Error("request failed")
			}
		case errors.As(err, &ve):
			status, message = http.StatusBadRequest, ve.Msg
		case errors.Is(err, repository.ErrNotFound):
			status = http.StatusNotFound
		case errors.Is(err, repository.ErrUsernameExists):
			status, message = http.StatusConflict, "Username already exists"
		default:
			log.WithError(err).WithField("path", c.Request().URL.Path).Error("request failed")
		}

		if rerr := respond(c, status, false, message, nil); rerr != nil {
			log.WithError(rerr).Error("write error response")
		}
	}
}

package http_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	perr "mgnrega/internal/platform/errors"
	pnet "mgnrega/internal/platform/net"
	phttp "mgnrega/internal/platform/net/http"
)

func reqWithReqID(method, path, rid string) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	return req.WithContext(pnet.WithRequest(req.Context(), rid))
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) phttp.Envelope {
	t.Helper()
	var env phttp.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v body=%q", err, rec.Body.String())
	}
	return env
}

func TestJSON_SetsStatusAndContentType(t *testing.T) {
	rec := httptest.NewRecorder()
	phttp.JSON(rec, http.StatusTeapot, map[string]any{"k": "v"})
	if rec.Code != http.StatusTeapot {
		t.Fatalf("JSON status: expected 418, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Fatalf("content-type = %q", ct)
	}
}

func TestRespondError_MapsCodeAndField(t *testing.T) {
	rec := httptest.NewRecorder()
	req := reqWithReqID("GET", "/x", "rid-err")
	err := perr.WithField(perr.Newf(perr.ErrorCodeValidation, "districts is required"), "districts")
	phttp.RespondError(rec, req, err)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	env := decode(t, rec)
	if env.Code != perr.ErrorCodeValidation || env.Field != "districts" || env.RequestID != "rid-err" {
		t.Fatalf("bad envelope: %+v", env)
	}
}

func TestHandle_SuccessAndNoContent(t *testing.T) {
	h := phttp.Handle(func(*http.Request) phttp.Response {
		return phttp.OK(map[string]string{"a": "b"})
	})
	rec := httptest.NewRecorder()
	h(rec, reqWithReqID("GET", "/x", "rid-1"))
	env := decode(t, rec)
	if rec.Code != http.StatusOK || env.StatusCode != 200 || env.RequestID != "rid-1" || env.Data == nil {
		t.Fatalf("bad envelope: %d %+v", rec.Code, env)
	}

	h204 := phttp.Handle(func(*http.Request) phttp.Response { return phttp.NoContent() })
	rec204 := httptest.NewRecorder()
	h204(rec204, reqWithReqID("DELETE", "/x", "rid-2"))
	if rec204.Code != http.StatusNoContent || rec204.Body.Len() != 0 {
		t.Fatalf("no content wrote %d %q", rec204.Code, rec204.Body.String())
	}
}

func TestHandle_ErrorBodyAndHeaders(t *testing.T) {
	h := phttp.Handle(func(*http.Request) phttp.Response {
		resp := phttp.Error(perr.NotFoundf("district %q not found", "NOWHERE"))
		resp.Header = http.Header{"X-Cache": []string{"miss"}}
		return resp
	})
	rec := httptest.NewRecorder()
	h(rec, reqWithReqID("GET", "/x", "rid-3"))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if rec.Header().Get("X-Cache") != "miss" {
		t.Fatalf("header not copied")
	}
	env := decode(t, rec)
	if env.Error != `district "NOWHERE" not found` || env.Code != perr.ErrorCodeNotFound {
		t.Fatalf("bad envelope: %+v", env)
	}
}

func TestErrorEnvelope_ForeignErrorIs500(t *testing.T) {
	status, env := phttp.ErrorEnvelope(errors.New("boom"), "")
	if status != http.StatusInternalServerError || env.Error != "boom" || env.Code != perr.ErrorCodeUnknown {
		t.Fatalf("got %d %+v", status, env)
	}
}

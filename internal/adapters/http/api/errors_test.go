package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/leadboard/internal/adapters/repository"
	service "github.com/okian/leadboard/internal/app"
)

func TestErrors(t *testing.T) {
	convey.Convey("Given API errors", t, func() {
		convey.Convey("Wrap classifies upstream sentinels", func() {
			cases := []struct {
				err    error
				status int
			}{
				{fmt.Errorf("lookup: %w", repository.ErrNotFound), http.StatusNotFound},
				{service.ErrBackpressure, http.StatusTooManyRequests},
				{fmt.Errorf("%w: empty", service.ErrInvalidAction), http.StatusBadRequest},
				{service.ErrInvalidLimit, http.StatusBadRequest},
				{service.ErrUnknownField, http.StatusBadRequest},
				{errors.New("boom"), http.StatusInternalServerError},
			}
			for _, c := range cases {
				status, _ := statusFor(Wrap("api.test", c.err))
				convey.So(status, convey.ShouldEqual, c.status)
			}
		})

		convey.Convey("Error keeps both kind and cause reachable", func() {
			cause := errors.New("bad json")
			err := WrapKind("api.decode", ErrBadRequest, cause)
			convey.So(errors.Is(err, ErrBadRequest), convey.ShouldBeTrue)
			convey.So(errors.Is(err, cause), convey.ShouldBeTrue)
			convey.So(err.Error(), convey.ShouldEqual, "api.decode: bad request: bad json")
			convey.So(NewKind("api.x", ErrNotFound).Error(), convey.ShouldEqual, "api.x: not found")
			convey.So(Wrap("api.x", nil), convey.ShouldBeNil)
		})

		convey.Convey("Error types follow the status code", func() {
			convey.So(getErrorType(http.StatusTooManyRequests), convey.ShouldEqual, "rate_limit")
			convey.So(getErrorType(http.StatusNotFound), convey.ShouldEqual, "not_found")
			convey.So(getErrorType(http.StatusBadRequest), convey.ShouldEqual, "client_error")
			convey.So(getErrorType(http.StatusBadGateway), convey.ShouldEqual, "server_error")
		})
	})
}

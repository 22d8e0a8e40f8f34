package api

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"

	service "github.com/okian/ricecast/internal/app"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("query"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
}

// ValidationError describes one rejected query parameter.
type ValidationError struct {
	Code    string         `json:"code"`
	Field   string         `json:"field,omitempty"`
	Message string         `json:"message"`
	Params  map[string]any `json:"params,omitempty"`
}

// validationFailure carries field errors through the error chain.
type validationFailure struct {
	errs []ValidationError
}

func (v *validationFailure) Error() string {
	msgs := make([]string, len(v.errs))
	for i, e := range v.errs {
		msgs[i] = e.Message
	}
	return strings.Join(msgs, "; ")
}

func (v *validationFailure) Unwrap() error { return ErrBadRequest }

// dashboardQuery is the dashboard state as carried in the URL.
type dashboardQuery struct {
	Tab      string `query:"tab" default:"forecast" validate:"oneof=forecast day history"`
	Scenario int    `query:"scenario" default:"1" validate:"gte=1"`
	From     int    `query:"from" validate:"gte=0"`
	To       int    `query:"to" validate:"gte=0"`
	Date     string `query:"date" validate:"omitempty,datetime=2006-01-02"`
	Page     int    `query:"page" default:"1" validate:"gte=1"`
}

// State folds the query into a dashboard state, one interaction at a time.
func (q dashboardQuery) State() (service.State, error) {
	st := service.Update(service.DefaultState(), service.SelectScenario{ID: q.Scenario})
	st = service.Update(st, service.SetRange{From: q.From, To: q.To})
	if q.Date != "" {
		d, err := time.Parse("2006-01-02", q.Date)
		if err != nil {
			return st, &validationFailure{errs: []ValidationError{{
				Code:    "ERR_DATETIME",
				Field:   "date",
				Message: "date must be a date formatted YYYY-MM-DD",
				Params:  map[string]any{"layout": "2006-01-02"},
			}}}
		}
		st = service.Update(st, service.PickDate{Date: d})
	}
	st = service.Update(st, service.SelectTab{Tab: service.Tab(q.Tab)})
	return service.Update(st, service.SetPage{Page: q.Page}), nil
}

// readQuery binds, defaults and validates URL query parameters into req.
func readQuery(ctx context.Context, values url.Values, req any) error {
	// Defaults go first so an explicit zero still reaches the validator.
	if err := defaults.Set(req); err != nil {
		return &validationFailure{errs: []ValidationError{{Code: "ERR_UNKNOWN", Message: err.Error()}}}
	}
	if err := bindQuery(values, req); err != nil {
		return err
	}
	if err := validate.StructCtx(ctx, req); err != nil {
		return validationRules(err)
	}
	return nil
}

// bindQuery copies string and int query values into fields tagged `query`.
func bindQuery(values url.Values, req any) error {
	rv := reflect.ValueOf(req)
	if rv.Kind() != reflect.Pointer || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("%w: bind target must be a struct pointer", ErrBadRequest)
	}
	rv = rv.Elem()
	rt := rv.Type()

	var errs []ValidationError
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		name := f.Tag.Get("query")
		if name == "" {
			continue
		}
		raw := strings.TrimSpace(values.Get(name))
		if raw == "" {
			continue
		}
		switch f.Type.Kind() {
		case reflect.String:
			rv.Field(i).SetString(raw)
		case reflect.Int:
			n, err := strconv.Atoi(raw)
			if err != nil {
				errs = append(errs, ValidationError{
					Code:    "ERR_TYPE",
					Field:   name,
					Message: fmt.Sprintf("%s must be an integer", name),
				})
				continue
			}
			rv.Field(i).SetInt(int64(n))
		}
	}
	if len(errs) > 0 {
		return &validationFailure{errs: errs}
	}
	return nil
}

func validationRules(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return &validationFailure{errs: []ValidationError{{Code: "ERR_UNKNOWN", Message: err.Error()}}}
	}
	errs := make([]ValidationError, 0, len(validationErrors))
	for _, e := range validationErrors {
		errs = append(errs, ValidationError{
			Code:    "ERR_" + strings.ToUpper(e.Tag()),
			Field:   e.Field(),
			Message: errorMessage(e),
			Params:  errorParams(e),
		})
	}
	return &validationFailure{errs: errs}
}

func errorMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	case "datetime":
		return fmt.Sprintf("%s must be a date formatted YYYY-MM-DD", field)
	default:
		return fmt.Sprintf("%s failed validation: %s", field, fe.Tag())
	}
}

func errorParams(fe validator.FieldError) map[string]any {
	switch fe.Tag() {
	case "gte":
		return map[string]any{"min": fe.Param()}
	case "oneof":
		return map[string]any{"options": strings.Split(fe.Param(), " ")}
	case "datetime":
		return map[string]any{"layout": fe.Param()}
	}
	return nil
}

// badQuery builds the error envelope for a rejected query, listing field errors.
func badQuery(err error) errorResponse {
	resp := errorResponse{Code: "bad_request", Message: err.Error()}
	var vf *validationFailure
	if errors.As(err, &vf) {
		resp.Details = vf.errs
	}
	return resp
}

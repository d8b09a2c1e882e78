// internal/validator/form_validator.go
package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/yourorg/trading-dashboard/internal/model"

	"github.com/go-playground/validator/v10"
)

const (
	// SignalFormMessage is shown when the signal form is incomplete
	SignalFormMessage = "Please select a strategy and symbol"
	// BacktestFormMessage is shown when the backtest form is incomplete or inconsistent
	BacktestFormMessage = "Please complete the backtest form"
	// AnalysisFormMessage is shown when no symbol was given for analysis
	AnalysisFormMessage = "Please enter a symbol"
)

// ValidationError describes a rejected form. Message is user-facing.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	parts := make([]string, 0, len(e.Fields))
	for field, rule := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, rule))
	}
	return fmt.Sprintf("%s (%s)", e.Message, strings.Join(parts, ", "))
}

// FormValidator validates dashboard forms before any backend call is made
type FormValidator struct {
	validate *validator.Validate
}

// NewFormValidator creates a validator with the dashboard's custom rules registered
func NewFormValidator() *FormValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("timeframe", validateTimeframe)
	v.RegisterStructValidation(validateBacktestDates, model.BacktestForm{})

	return &FormValidator{validate: v}
}

// ValidateSignalForm checks the signal generation form
func (fv *FormValidator) ValidateSignalForm(form model.SignalForm) error {
	form.Symbol = strings.TrimSpace(form.Symbol)
	return fv.check(form, SignalFormMessage)
}

// ValidateBacktestForm checks the backtest form, including that end_date is not before start_date
func (fv *FormValidator) ValidateBacktestForm(form model.BacktestForm) error {
	form.Symbol = strings.TrimSpace(form.Symbol)
	return fv.check(form, BacktestFormMessage)
}

// ValidateAnalysisForm checks the symbol analysis form
func (fv *FormValidator) ValidateAnalysisForm(form model.AnalysisForm) error {
	form.Symbol = strings.TrimSpace(form.Symbol)
	return fv.check(form, AnalysisFormMessage)
}

func (fv *FormValidator) check(form interface{}, message string) error {
	err := fv.validate.Struct(form)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("failed to validate form: %w", err)
	}

	fields := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields[fe.Field()] = fe.Tag()
	}
	return &ValidationError{Message: message, Fields: fields}
}

func validateTimeframe(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	for _, tf := range model.Timeframes {
		if tf == value {
			return true
		}
	}
	return false
}

func validateBacktestDates(sl validator.StructLevel) {
	form := sl.Current().Interface().(model.BacktestForm)

	start, err := time.Parse("2006-01-02", form.StartDate)
	if err != nil {
		return
	}
	end, err := time.Parse("2006-01-02", form.EndDate)
	if err != nil {
		return
	}
	if end.Before(start) {
		sl.ReportError(form.EndDate, "end_date", "EndDate", "enddate", "")
	}
}

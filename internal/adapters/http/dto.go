package http

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/dayroute/internal/core/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		_, err := domain.ParseCategory(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("travelmode", func(fl validator.FieldLevel) bool {
		_, err := domain.ParseTravelMode(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("vehicle", func(fl validator.FieldLevel) bool {
		_, err := domain.ParseVehicleType(fl.Field().String())
		return err == nil
	})
	return v
}

type geoPointDTO struct {
	Lat *float64 `json:"lat" validate:"required"`
	Lon *float64 `json:"lon" validate:"required"`
}

func (g geoPointDTO) toDomain() domain.GeoPoint {
	return domain.GeoPoint{Lat: *g.Lat, Lon: *g.Lon}
}

type timeSlotDTO struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type activityDTO struct {
	ID       string       `json:"id" validate:"max=128"`
	Title    string       `json:"title" validate:"max=256"`
	Category string       `json:"category" validate:"omitempty,category"`
	Location *geoPointDTO `json:"location" validate:"required"`
	TimeSlot timeSlotDTO  `json:"time_slot"`
	IsLocked bool         `json:"is_locked"`
}

func (a activityDTO) toDomain() domain.Activity {
	// Unknown names are rejected by the validator; empty stays the zero
	// category and is reported by strict validation.
	cat, _ := domain.ParseCategory(a.Category)
	return domain.Activity{
		ID:       a.ID,
		Title:    a.Title,
		Category: cat,
		Location: a.Location.toDomain(),
		TimeSlot: domain.TimeSlot{Start: a.TimeSlot.Start, End: a.TimeSlot.End},
		IsLocked: a.IsLocked,
	}
}

// optionsDTO keeps switches as pointers so an omitted switch takes its
// default instead of false.
type optionsDTO struct {
	TravelMode              string       `json:"travel_mode" validate:"omitempty,travelmode"`
	StartLocation           *geoPointDTO `json:"start_location" validate:"omitempty"`
	VehicleType             string       `json:"vehicle_type" validate:"omitempty,vehicle"`
	FuelPricePerLiter       float64      `json:"fuel_price_per_liter" validate:"gte=0"`
	ConsiderTraffic         *bool        `json:"consider_traffic"`
	ConsiderTolls           *bool        `json:"consider_tolls"`
	ConsiderParking         *bool        `json:"consider_parking"`
	PreserveTimeConstraints *bool        `json:"preserve_time_constraints"`
	MaxDetourKm             float64      `json:"max_detour_km" validate:"gte=0"`
	DayStart                *time.Time   `json:"day_start"`
	Validation              string       `json:"validation" validate:"omitempty,oneof=lenient strict"`
}

func (o *optionsDTO) toDomain() domain.OptimizeOptions {
	opts := domain.DefaultOptimizeOptions()
	// Zero lets the service fill in the current reference price.
	opts.FuelPricePerLiter = 0
	opts.Validation = ""
	if o == nil {
		return opts
	}
	if o.TravelMode != "" {
		opts.TravelMode, _ = domain.ParseTravelMode(o.TravelMode)
	}
	if o.VehicleType != "" {
		opts.Vehicle, _ = domain.ParseVehicleType(o.VehicleType)
	}
	if o.StartLocation != nil {
		p := o.StartLocation.toDomain()
		opts.StartLocation = &p
	}
	opts.FuelPricePerLiter = o.FuelPricePerLiter
	setBool(&opts.ConsiderTraffic, o.ConsiderTraffic)
	setBool(&opts.ConsiderTolls, o.ConsiderTolls)
	setBool(&opts.ConsiderParking, o.ConsiderParking)
	setBool(&opts.PreserveTimeConstraints, o.PreserveTimeConstraints)
	opts.MaxDetourKm = o.MaxDetourKm
	if o.DayStart != nil {
		opts.DayStart = *o.DayStart
	}
	opts.Validation = domain.ValidationMode(o.Validation)
	return opts
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

// OptimizeRequest is the body of POST /v1/itineraries/optimize.
type OptimizeRequest struct {
	Activities []activityDTO `json:"activities" validate:"max=200,dive"`
	Options    *optionsDTO   `json:"options" validate:"omitempty"`
}

func (r OptimizeRequest) toDomain() domain.DayPlanRequest {
	return domain.DayPlanRequest{
		Activities: activitiesToDomain(r.Activities),
		Options:    r.Options.toDomain(),
	}
}

// BatchRequest is the body of the batch endpoints.
type BatchRequest struct {
	Days []OptimizeRequest `json:"days" validate:"required,min=1,dive"`
}

func (r BatchRequest) toDomain() []domain.DayPlanRequest {
	days := make([]domain.DayPlanRequest, len(r.Days))
	for i, d := range r.Days {
		days[i] = d.toDomain()
	}
	return days
}

// ClustersRequest is the body of POST /v1/itineraries/clusters.
type ClustersRequest struct {
	Activities    []activityDTO `json:"activities" validate:"max=200,dive"`
	MaxDistanceKm float64       `json:"max_distance_km" validate:"gte=0"`
}

// TimingRequest is the body of POST /v1/itineraries/timing.
type TimingRequest struct {
	Activities []activityDTO `json:"activities" validate:"max=200,dive"`
}

// FuelPriceRequest is the body of PUT /v1/fuel-prices/:region.
type FuelPriceRequest struct {
	PricePerLiter float64 `json:"price_per_liter" validate:"required,gt=0"`
	Currency      string  `json:"currency" validate:"omitempty,len=3,uppercase"`
}

// DistanceQuery is the query of GET /v1/distance.
type DistanceQuery struct {
	FromLat *float64 `query:"from_lat" json:"from_lat" validate:"required"`
	FromLon *float64 `query:"from_lon" json:"from_lon" validate:"required"`
	ToLat   *float64 `query:"to_lat" json:"to_lat" validate:"required"`
	ToLon   *float64 `query:"to_lon" json:"to_lon" validate:"required"`
}

// TravelTimeQuery is the query of GET /v1/travel-time.
type TravelTimeQuery struct {
	DistanceKm *float64 `query:"distance_km" json:"distance_km" validate:"required,gte=0"`
	Mode       string   `query:"mode" json:"mode" validate:"omitempty,travelmode"`
}

func activitiesToDomain(in []activityDTO) []domain.Activity {
	out := make([]domain.Activity, len(in))
	for i, a := range in {
		out[i] = a.toDomain()
	}
	return out
}

// bindJSON parses and validates a request body. A non-nil error has
// already been written to the response.
func bindJSON(c *fiber.Ctx, dst any) (bool, error) {
	if err := c.BodyParser(dst); err != nil {
		return false, errBadRequest(c, "invalid request body: "+err.Error())
	}
	return checkStruct(c, dst)
}

// bindQuery parses and validates query parameters.
func bindQuery(c *fiber.Ctx, dst any) (bool, error) {
	if err := c.QueryParser(dst); err != nil {
		return false, errBadRequest(c, "invalid query parameters: "+err.Error())
	}
	return checkStruct(c, dst)
}

func checkStruct(c *fiber.Ctx, v any) (bool, error) {
	if fields := validationFields(validate.Struct(v)); fields != nil {
		return false, errInvalidFields(c, fields)
	}
	return true, nil
}

// validationFields turns validator errors into a field -> message map.
func validationFields(err error) map[string]string {
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"body": err.Error()}
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		name := fieldName(fe)
		fields[name] = fieldMessage(name, fe)
	}
	return fields
}

// fieldName drops the root struct from the namespace, e.g.
// "OptimizeRequest.activities[0].category" becomes "activities[0].category".
func fieldName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func fieldMessage(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must have at most %s entries", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must have at least %s entries", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	case "len":
		return fmt.Sprintf("%s must be exactly %s characters", field, fe.Param())
	case "uppercase":
		return fmt.Sprintf("%s must be upper case", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "category":
		return fmt.Sprintf("%s is not a known category", field)
	case "travelmode":
		return fmt.Sprintf("%s must be walking, driving or public_transport", field)
	case "vehicle":
		return fmt.Sprintf("%s must be compact, standard, suv or electric", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

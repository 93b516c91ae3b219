package http

import (
	"encoding/json"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/samirrijal/dayroute/internal/core/domain"
)

// decodeArg converts a graphql input value into one of the REST request
// DTOs so both surfaces share binding and validation.
func decodeArg(arg any, dst any) error {
	data, err := json.Marshal(arg)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return err
	}
	if fields := validationFields(validate.Struct(dst)); fields != nil {
		return fmt.Errorf("invalid input: %v", fields)
	}
	return nil
}

// buildSchema creates the GraphQL schema wired to our services.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	geoPointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GeoPoint",
		Fields: graphql.Fields{
			"lat": &graphql.Field{Type: graphql.Float},
			"lon": &graphql.Field{Type: graphql.Float},
		},
	})

	boundsType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Bounds",
		Fields: graphql.Fields{
			"min_lat": &graphql.Field{Type: graphql.Float},
			"min_lon": &graphql.Field{Type: graphql.Float},
			"max_lat": &graphql.Field{Type: graphql.Float},
			"max_lon": &graphql.Field{Type: graphql.Float},
		},
	})

	timeSlotType := graphql.NewObject(graphql.ObjectConfig{
		Name: "TimeSlot",
		Fields: graphql.Fields{
			"start": &graphql.Field{Type: graphql.DateTime},
			"end":   &graphql.Field{Type: graphql.DateTime},
		},
	})

	activityType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Activity",
		Fields: graphql.Fields{
			"id":    &graphql.Field{Type: graphql.String},
			"title": &graphql.Field{Type: graphql.String},
			"category": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if a, ok := p.Source.(domain.Activity); ok {
						return a.Category.String(), nil
					}
					return nil, nil
				},
			},
			"location":  &graphql.Field{Type: geoPointType},
			"time_slot": &graphql.Field{Type: timeSlotType},
			"is_locked": &graphql.Field{Type: graphql.Boolean},
		},
	})

	costType := graphql.NewObject(graphql.ObjectConfig{
		Name: "CostBreakdown",
		Fields: graphql.Fields{
			"fuel_liters":  &graphql.Field{Type: graphql.Float},
			"fuel_cost":    &graphql.Field{Type: graphql.Float},
			"co2_kg":       &graphql.Field{Type: graphql.Float},
			"toll_cost":    &graphql.Field{Type: graphql.Float},
			"parking_cost": &graphql.Field{Type: graphql.Float},
			"total":        &graphql.Field{Type: graphql.Float},
		},
	})

	savingsType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Savings",
		Fields: graphql.Fields{
			"time_minutes": &graphql.Field{Type: graphql.Int},
			"distance_km":  &graphql.Field{Type: graphql.Float},
			"cost":         &graphql.Field{Type: graphql.Float},
		},
	})

	trafficDelayType := graphql.NewObject(graphql.ObjectConfig{
		Name: "TrafficDelay",
		Fields: graphql.Fields{
			"from_id":       &graphql.Field{Type: graphql.String},
			"to_id":         &graphql.Field{Type: graphql.String},
			"depart_at":     &graphql.Field{Type: graphql.DateTime},
			"multiplier":    &graphql.Field{Type: graphql.Float},
			"base_minutes":  &graphql.Field{Type: graphql.Int},
			"delay_minutes": &graphql.Field{Type: graphql.Int},
			"severity":      &graphql.Field{Type: graphql.String},
		},
	})

	trafficType := graphql.NewObject(graphql.ObjectConfig{
		Name: "TrafficImpact",
		Fields: graphql.Fields{
			"total_delay_minutes": &graphql.Field{Type: graphql.Int},
			"segments":            &graphql.Field{Type: graphql.NewList(trafficDelayType)},
		},
	})

	conflictType := graphql.NewObject(graphql.ObjectConfig{
		Name: "LockConflict",
		Fields: graphql.Fields{
			"activity_id":     &graphql.Field{Type: graphql.String},
			"previous_id":     &graphql.Field{Type: graphql.String},
			"required_start":  &graphql.Field{Type: graphql.DateTime},
			"locked_start":    &graphql.Field{Type: graphql.DateTime},
			"overlap_minutes": &graphql.Field{Type: graphql.Int},
		},
	})

	resultType := graphql.NewObject(graphql.ObjectConfig{
		Name: "OptimizationResult",
		Fields: graphql.Fields{
			"optimized_activities":    &graphql.Field{Type: graphql.NewList(activityType)},
			"algorithm":               &graphql.Field{Type: graphql.String},
			"original_distance_km":    &graphql.Field{Type: graphql.Float},
			"total_distance_km":       &graphql.Field{Type: graphql.Float},
			"original_travel_minutes": &graphql.Field{Type: graphql.Int},
			"total_travel_minutes":    &graphql.Field{Type: graphql.Int},
			"traffic":                 &graphql.Field{Type: trafficType},
			"cost":                    &graphql.Field{Type: costType},
			"estimated_savings":       &graphql.Field{Type: savingsType},
			"efficiency":              &graphql.Field{Type: graphql.Int},
			"suggestions":             &graphql.Field{Type: graphql.NewList(graphql.String)},
			"conflicts":               &graphql.Field{Type: graphql.NewList(conflictType)},
		},
	})

	dayPlanType := graphql.NewObject(graphql.ObjectConfig{
		Name: "DayPlan",
		Fields: graphql.Fields{
			"id":     &graphql.Field{Type: graphql.String},
			"cached": &graphql.Field{Type: graphql.Boolean},
			"result": &graphql.Field{Type: resultType},
		},
	})

	clusterType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Cluster",
		Fields: graphql.Fields{
			"activities": &graphql.Field{Type: graphql.NewList(activityType)},
			"center":     &graphql.Field{Type: geoPointType},
			"bounds":     &graphql.Field{Type: boundsType},
		},
	})

	geoPointInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "GeoPointInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"lat": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.Float)},
			"lon": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.Float)},
		},
	})

	timeSlotInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "TimeSlotInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"start": &graphql.InputObjectFieldConfig{Type: graphql.DateTime},
			"end":   &graphql.InputObjectFieldConfig{Type: graphql.DateTime},
		},
	})

	activityInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "ActivityInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"id":        &graphql.InputObjectFieldConfig{Type: graphql.String},
			"title":     &graphql.InputObjectFieldConfig{Type: graphql.String},
			"category":  &graphql.InputObjectFieldConfig{Type: graphql.String},
			"location":  &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(geoPointInput)},
			"time_slot": &graphql.InputObjectFieldConfig{Type: timeSlotInput},
			"is_locked": &graphql.InputObjectFieldConfig{Type: graphql.Boolean},
		},
	})

	optionsInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "OptimizeOptionsInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"travel_mode":               &graphql.InputObjectFieldConfig{Type: graphql.String},
			"start_location":            &graphql.InputObjectFieldConfig{Type: geoPointInput},
			"vehicle_type":              &graphql.InputObjectFieldConfig{Type: graphql.String},
			"fuel_price_per_liter":      &graphql.InputObjectFieldConfig{Type: graphql.Float},
			"consider_traffic":          &graphql.InputObjectFieldConfig{Type: graphql.Boolean},
			"consider_tolls":            &graphql.InputObjectFieldConfig{Type: graphql.Boolean},
			"consider_parking":          &graphql.InputObjectFieldConfig{Type: graphql.Boolean},
			"preserve_time_constraints": &graphql.InputObjectFieldConfig{Type: graphql.Boolean},
			"max_detour_km":             &graphql.InputObjectFieldConfig{Type: graphql.Float},
			"day_start":                 &graphql.InputObjectFieldConfig{Type: graphql.DateTime},
			"validation":                &graphql.InputObjectFieldConfig{Type: graphql.String},
		},
	})

	activitiesArg := &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(activityInput)))}

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"optimize": &graphql.Field{
				Type:        dayPlanType,
				Description: "Reorder and reschedule one day of activities",
				Args: graphql.FieldConfigArgument{
					"activities": activitiesArg,
					"options":    &graphql.ArgumentConfig{Type: optionsInput},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					var req OptimizeRequest
					if err := decodeArg(p.Args, &req); err != nil {
						return nil, err
					}
					return deps.Itineraries.Optimize(p.Context, req.toDomain())
				},
			},
			"distance": &graphql.Field{
				Type:        graphql.Float,
				Description: "Great-circle distance in km",
				Args: graphql.FieldConfigArgument{
					"from": &graphql.ArgumentConfig{Type: graphql.NewNonNull(geoPointInput)},
					"to":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(geoPointInput)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					var args struct {
						From geoPointDTO `json:"from"`
						To   geoPointDTO `json:"to"`
					}
					if err := decodeArg(p.Args, &args); err != nil {
						return nil, err
					}
					return deps.Itineraries.Distance(args.From.toDomain(), args.To.toDomain())
				},
			},
			"travelTime": &graphql.Field{
				Type:        graphql.Int,
				Description: "Travel time in minutes for a distance",
				Args: graphql.FieldConfigArgument{
					"distance_km": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"mode":        &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: string(domain.TravelDriving)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					km := p.Args["distance_km"].(float64)
					mode := p.Args["mode"].(string)
					return deps.Itineraries.TravelTime(km, mode)
				},
			},
			"clusters": &graphql.Field{
				Type:        graphql.NewList(clusterType),
				Description: "Group activities that are close together",
				Args: graphql.FieldConfigArgument{
					"activities":      activitiesArg,
					"max_distance_km": &graphql.ArgumentConfig{Type: graphql.Float, DefaultValue: 0.0},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					var req ClustersRequest
					if err := decodeArg(p.Args, &req); err != nil {
						return nil, err
					}
					return deps.Itineraries.Clusters(activitiesToDomain(req.Activities), req.MaxDistanceKm), nil
				},
			},
			"timing": &graphql.Field{
				Type:        graphql.NewList(graphql.String),
				Description: "Advice about poorly timed activities",
				Args: graphql.FieldConfigArgument{
					"activities": activitiesArg,
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					var req TimingRequest
					if err := decodeArg(p.Args, &req); err != nil {
						return nil, err
					}
					return deps.Itineraries.Timing(activitiesToDomain(req.Activities)).Suggestions, nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// This would be a programming error in the schema definition
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if req.Query == "" {
			return errBadRequest(c, "query is required")
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.UserContext(),
		})

		return c.JSON(result)
	}
}

package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/swopnil/Guardify/internal/core/domain"
)

// buildSchema creates the GraphQL schema wired to our services.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	geoPointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GeoPoint",
		Fields: graphql.Fields{
			"lat": &graphql.Field{Type: graphql.Float},
			"lon": &graphql.Field{Type: graphql.Float},
		},
	})

	geoSpanType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GeoSpan",
		Fields: graphql.Fields{
			"lat_delta": &graphql.Field{Type: graphql.Float},
			"lon_delta": &graphql.Field{Type: graphql.Float},
		},
	})

	regionType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GeoRegion",
		Fields: graphql.Fields{
			"center": &graphql.Field{Type: geoPointType},
			"span":   &graphql.Field{Type: geoSpanType},
		},
	})

	personType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Person",
		Fields: graphql.Fields{
			"id":       &graphql.Field{Type: graphql.String},
			"position": &graphql.Field{Type: geoPointType},
		},
	})

	alertType := graphql.NewObject(graphql.ObjectConfig{
		Name: "SafetyAlert",
		Fields: graphql.Fields{
			"id":           &graphql.Field{Type: graphql.String},
			"kind":         &graphql.Field{Type: graphql.String},
			"message":      &graphql.Field{Type: graphql.String},
			"location":     &graphql.Field{Type: geoPointType},
			"created_at":   &graphql.Field{Type: graphql.DateTime},
			"acknowledged": &graphql.Field{Type: graphql.Boolean},
			"acked_at":     &graphql.Field{Type: graphql.DateTime},
		},
	})

	stepType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Step",
		Fields: graphql.Fields{
			"instruction": &graphql.Field{Type: graphql.String},
			"anchor":      &graphql.Field{Type: geoPointType},
		},
	})

	routeType := graphql.NewObject(graphql.ObjectConfig{
		Name: "RouteCandidate",
		Fields: graphql.Fields{
			"points": &graphql.Field{Type: graphql.NewList(geoPointType)},
			"steps":  &graphql.Field{Type: graphql.NewList(stepType)},
		},
	})

	scoredRouteType := graphql.NewObject(graphql.ObjectConfig{
		Name: "ScoredRoute",
		Fields: graphql.Fields{
			"route": &graphql.Field{Type: routeType},
			"score": &graphql.Field{Type: graphql.Float},
			"index": &graphql.Field{Type: graphql.Int},
		},
	})

	navigationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "NavigationStatus",
		Fields: graphql.Fields{
			"session_id":   &graphql.Field{Type: graphql.String},
			"state":        &graphql.Field{Type: graphql.String},
			"instruction":  &graphql.Field{Type: graphql.String},
			"position":     &graphql.Field{Type: geoPointType},
			"inside_fence": &graphql.Field{Type: graphql.Boolean},
		},
	})

	chatExchangeType := graphql.NewObject(graphql.ObjectConfig{
		Name: "ChatExchange",
		Fields: graphql.Fields{
			"id":         &graphql.Field{Type: graphql.String},
			"user_text":  &graphql.Field{Type: graphql.String},
			"bot_text":   &graphql.Field{Type: graphql.String},
			"malicious":  &graphql.Field{Type: graphql.Boolean},
			"created_at": &graphql.Field{Type: graphql.DateTime},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"people": &graphql.Field{
				Type:        graphql.NewList(personType),
				Description: "Latest people snapshot on the campus map",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.People.Snapshot(), nil
				},
			},
			"peopleNearby": &graphql.Field{
				Type:        graphql.NewList(personType),
				Description: "People within a radius of a point",
				Args: graphql.FieldConfigArgument{
					"lat":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"lon":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"radius": &graphql.ArgumentConfig{Type: graphql.Float, DefaultValue: 200.0},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					center := domain.GeoPoint{
						Lat: p.Args["lat"].(float64),
						Lon: p.Args["lon"].(float64),
					}
					if err := domain.ValidatePoint(center); err != nil {
						return nil, err
					}
					return deps.People.Near(center, p.Args["radius"].(float64)), nil
				},
			},
			"fence": &graphql.Field{
				Type:        regionType,
				Description: "The campus fence region",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Geofence.Region(), nil
				},
			},
			"fenceStatus": &graphql.Field{
				Type:        graphql.Boolean,
				Description: "Whether a point lies inside the campus fence",
				Args: graphql.FieldConfigArgument{
					"lat": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"lon": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					pt := domain.GeoPoint{
						Lat: p.Args["lat"].(float64),
						Lon: p.Args["lon"].(float64),
					}
					if err := domain.ValidatePoint(pt); err != nil {
						return nil, err
					}
					return deps.Geofence.Status(pt), nil
				},
			},
			"alerts": &graphql.Field{
				Type:        graphql.NewList(alertType),
				Description: "Safety alerts, newest first",
				Args: graphql.FieldConfigArgument{
					"limit":  &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 50},
					"offset": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 0},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					alerts, _, err := deps.Alerts.List(p.Context, p.Args["limit"].(int), p.Args["offset"].(int))
					return alerts, err
				},
			},
			"alert": &graphql.Field{
				Type:        alertType,
				Description: "Get an alert by ID",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Alerts.GetByID(p.Context, p.Args["id"].(string))
				},
			},
			"planRoutes": &graphql.Field{
				Type:        graphql.NewList(scoredRouteType),
				Description: "Walking routes between two points, safest first",
				Args: graphql.FieldConfigArgument{
					"origin_lat":      &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"origin_lon":      &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"destination_lat": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"destination_lon": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					origin := domain.GeoPoint{
						Lat: p.Args["origin_lat"].(float64),
						Lon: p.Args["origin_lon"].(float64),
					}
					dest := domain.GeoPoint{
						Lat: p.Args["destination_lat"].(float64),
						Lon: p.Args["destination_lon"].(float64),
					}
					return deps.Routes.PlanRoutes(p.Context, origin, dest)
				},
			},
			"navigationSession": &graphql.Field{
				Type:        navigationType,
				Description: "Current state of a navigation session",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Navigation.Get(p.Args["id"].(string))
				},
			},
			"chatHistory": &graphql.Field{
				Type:        graphql.NewList(chatExchangeType),
				Description: "Past assistant exchanges, newest first",
				Args: graphql.FieldConfigArgument{
					"limit":  &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 50},
					"offset": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 0},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					history, _, err := deps.Chat.History(p.Context, p.Args["limit"].(int), p.Args["offset"].(int))
					return history, err
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
			return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.Context(),
		})

		return c.JSON(result)
	}
}

// Package graph exposes the storefront catalog as a read-only GraphQL
// schema, mirroring the REST shop endpoints.
package graph

import (
	"github.com/graphql-go/graphql"

	"github.com/allmart/storefront/app/services"
)

var productType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Product",
	Fields: graphql.Fields{
		"id":          &graphql.Field{Type: graphql.String},
		"name":        &graphql.Field{Type: graphql.String},
		"category":    &graphql.Field{Type: graphql.String},
		"price":       &graphql.Field{Type: graphql.Float},
		"stock":       &graphql.Field{Type: graphql.Int},
		"description": &graphql.Field{Type: graphql.String},
		"gender":      &graphql.Field{Type: graphql.String},
		"tags":        &graphql.Field{Type: graphql.NewList(graphql.String)},
		"colors":      &graphql.Field{Type: graphql.NewList(graphql.String)},
		"images":      &graphql.Field{Type: graphql.NewList(graphql.String)},
	},
})

var categoryType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Category",
	Fields: graphql.Fields{
		"id":          &graphql.Field{Type: graphql.String},
		"name":        &graphql.Field{Type: graphql.String},
		"description": &graphql.Field{Type: graphql.String},
		"image":       &graphql.Field{Type: graphql.String},
	},
})

func stringArg(p graphql.ResolveParams, name string) string {
	if v, ok := p.Args[name].(string); ok {
		return v
	}
	return ""
}

func floatArg(p graphql.ResolveParams, name string) float64 {
	if v, ok := p.Args[name].(float64); ok {
		return v
	}
	return 0
}

// Query builds the root query object over the catalog service.
func Query(catalog *services.CatalogService) *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"products": &graphql.Field{
				Type: graphql.NewList(productType),
				Args: graphql.FieldConfigArgument{
					"gender":   &graphql.ArgumentConfig{Type: graphql.String},
					"category": &graphql.ArgumentConfig{Type: graphql.String},
					"tag":      &graphql.ArgumentConfig{Type: graphql.String},
					"color":    &graphql.ArgumentConfig{Type: graphql.String},
					"minPrice": &graphql.ArgumentConfig{Type: graphql.Float},
					"maxPrice": &graphql.ArgumentConfig{Type: graphql.Float},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return catalog.ShopProducts(p.Context, services.ShopFilter{
						Gender:   stringArg(p, "gender"),
						Category: stringArg(p, "category"),
						Tag:      stringArg(p, "tag"),
						Color:    stringArg(p, "color"),
						MinPrice: floatArg(p, "minPrice"),
						MaxPrice: floatArg(p, "maxPrice"),
					})
				},
			},
			"categories": &graphql.Field{
				Type: graphql.NewList(categoryType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return catalog.Categories(p.Context)
				},
			},
		},
	})
}

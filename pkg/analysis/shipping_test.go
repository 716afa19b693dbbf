package analysis

import "github.com/dd0wney/cluso-ormlens/pkg/model"

const cargoPkg = "se.citerus.dddsample.domain.model.cargo"

func owned(attr, target string, mapping model.MappingKind, lazy bool) model.Relationship {
	return model.Relationship{
		Attribute: attr, Target: target, Mapping: mapping, Lazy: lazy,
		CascadePersist: true, CascadeRemove: true,
	}
}

func ref(attr, target string) model.Relationship {
	return model.Relationship{Attribute: attr, Target: target, Mapping: model.MappingManyToOne, Lazy: true}
}

// shippingModel is the cargo shipping domain from the DDD sample application.
func shippingModel() []model.EntityNode {
	return []model.EntityNode{
		{Name: "Cargo", Package: cargoPkg, Kind: model.KindEntity, Relationships: []model.Relationship{
			owned("deliveryHistory", "DeliveryHistory", model.MappingOneToOne, false),
			owned("itinerary", "Itinerary", model.MappingOneToOne, false),
			owned("routeSpecification", "RouteSpecification", model.MappingOneToOne, false),
			ref("origin", "Location"),
		}},
		{Name: "DeliveryHistory", Package: cargoPkg, Kind: model.KindEntity, Relationships: []model.Relationship{
			owned("eventsOrderedByCompletionTime", "HandlingEvent", model.MappingOneToMany, true),
		}},
		{Name: "Itinerary", Package: cargoPkg, Kind: model.KindEmbeddable, Relationships: []model.Relationship{
			owned("legs", "Leg", model.MappingOneToMany, false),
		}},
		{Name: "Leg", Package: cargoPkg, Kind: model.KindEmbeddable, Relationships: []model.Relationship{
			ref("voyage", "Voyage"),
			ref("loadLocation", "Location"),
			ref("unloadLocation", "Location"),
		}},
		{Name: "RouteSpecification", Package: cargoPkg, Kind: model.KindEmbeddable, Relationships: []model.Relationship{
			ref("origin", "Location"),
			ref("destination", "Location"),
		}},
		{Name: "HandlingEvent", Package: "se.citerus.dddsample.domain.model.handling", Kind: model.KindEntity,
			Relationships: []model.Relationship{
				ref("location", "Location"),
				ref("voyage", "Voyage"),
			}},
		{Name: "Location", Package: "se.citerus.dddsample.domain.model.location", Kind: model.KindEntity},
		{Name: "Voyage", Package: "se.citerus.dddsample.domain.model.voyage", Kind: model.KindEntity,
			Relationships: []model.Relationship{
				owned("carrierMovements", "CarrierMovement", model.MappingOneToMany, false),
			}},
		{Name: "CarrierMovement", Package: "se.citerus.dddsample.domain.model.voyage", Kind: model.KindEntity,
			Relationships: []model.Relationship{
				ref("departureLocation", "Location"),
				ref("arrivalLocation", "Location"),
			}},
	}
}

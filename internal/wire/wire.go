// Package wire defines the JSON request/response shapes for the
// loadplan-solve CLI's external interface, and the conversions between
// them and the internal loadmodel/solver types.
package wire

import (
	"github.com/piwi3910/loadplan/internal/loadmodel"
	"github.com/piwi3910/loadplan/internal/solver"
	"github.com/piwi3910/loadplan/internal/stage"
)

// ItemGroupRequest mirrors stage.ItemGroup for JSON decoding.
type ItemGroupRequest struct {
	OrderID         string  `json:"order_id"`
	ItemTypeID      string  `json:"item_type_id"`
	ItemType        string  `json:"item_type"`
	Width           float64 `json:"width"`
	Length          float64 `json:"length"`
	Height          float64 `json:"height"`
	Weight          float64 `json:"weight"`
	Quantity        int     `json:"quantity"`
	IsSideUp        bool    `json:"is_side_up"`
	MaxStack        int     `json:"max_stack"`
	MaxStackWeight  float64 `json:"max_stack_weight"`
	MustBeOnTop     bool    `json:"must_be_on_top"`
	Grounded        bool    `json:"grounded"`
	PickupPriority  int     `json:"pickup_priority"`
	SendDateTS      int64   `json:"send_date_ts"`
	CoLocationGroup string  `json:"co_location_group"`
}

// ContainerGroupRequest mirrors stage.ContainerGroup for JSON decoding.
type ContainerGroupRequest struct {
	TypeID         string  `json:"type_id"`
	Length         float64 `json:"length"`
	Width          float64 `json:"width"`
	Height         float64 `json:"height"`
	MaxWeight      float64 `json:"max_weight"`
	ExLength       float64 `json:"ex_length"`
	ExWidth        float64 `json:"ex_width"`
	ExHeight       float64 `json:"ex_height"`
	ExWeight       float64 `json:"ex_weight"`
	Quantity       int     `json:"quantity"`
	PickupPriority int     `json:"pickup_priority"`
	DoorPosition   string  `json:"door_position"`
}

// PositionRequest is an (x, y, z) origin offset.
type PositionRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// SolveRequest is the full decoded CLI input.
type SolveRequest struct {
	Containers       []ContainerGroupRequest `json:"containers"`
	Items            []ItemGroupRequest      `json:"items"`
	CoLocationGroups []string                `json:"co_location_groups"`
	Origin           PositionRequest         `json:"origin"`
}

// PlacedItemResponse is one packed item in the output.
type PlacedItemResponse struct {
	ID             int     `json:"id"`
	OrderID        string  `json:"order_id"`
	ItemTypeID     string  `json:"item_type_id"`
	X              float64 `json:"x"`
	Y              float64 `json:"y"`
	Z              float64 `json:"z"`
	Rotation       int     `json:"rotation"`
	Layer          int     `json:"layer"`
	Width          float64 `json:"width"`
	Length         float64 `json:"length"`
	Height         float64 `json:"height"`
	Weight         float64 `json:"weight"`
	PickupPriority int     `json:"pickup_priority"`
}

// ContainerResponse is one packed container in the output.
type ContainerResponse struct {
	ID           int                  `json:"id"`
	TypeID       string               `json:"type_id"`
	DoorPosition string               `json:"door_position"`
	Items        []PlacedItemResponse `json:"items"`
}

// SolveResponse is the full CLI output.
type SolveResponse struct {
	Containers []ContainerResponse  `json:"containers"`
	Unused     []PlacedItemResponse `json:"unused"`
}

// ToSolveInput expands and stages the request into a solver.SolveInput.
func (r SolveRequest) ToSolveInput() solver.SolveInput {
	itemGroups := make([]stage.ItemGroup, len(r.Items))
	for i, g := range r.Items {
		itemGroups[i] = stage.ItemGroup{
			OrderID:         g.OrderID,
			ItemTypeID:      g.ItemTypeID,
			ItemType:        g.ItemType,
			Width:           g.Width,
			Length:          g.Length,
			Height:          g.Height,
			Weight:          g.Weight,
			Quantity:        g.Quantity,
			IsSideUp:        g.IsSideUp,
			MaxStack:        g.MaxStack,
			MaxStackWeight:  g.MaxStackWeight,
			MustBeOnTop:     g.MustBeOnTop,
			Grounded:        g.Grounded,
			PickupPriority:  g.PickupPriority,
			SendDateTS:      g.SendDateTS,
			CoLocationGroup: g.CoLocationGroup,
		}
	}

	containerGroups := make([]stage.ContainerGroup, len(r.Containers))
	for i, g := range r.Containers {
		containerGroups[i] = stage.ContainerGroup{
			TypeID:         g.TypeID,
			Length:         g.Length,
			Width:          g.Width,
			Height:         g.Height,
			MaxWeight:      g.MaxWeight,
			ExLength:       g.ExLength,
			ExWidth:        g.ExWidth,
			ExHeight:       g.ExHeight,
			ExWeight:       g.ExWeight,
			Quantity:       g.Quantity,
			PickupPriority: g.PickupPriority,
			DoorPosition:   loadmodel.DoorPosition(g.DoorPosition),
		}
	}

	origin := loadmodel.Position{X: r.Origin.X, Y: r.Origin.Y, Z: r.Origin.Z}
	return solver.SolveInput{
		Containers:       stage.ExpandContainers(containerGroups, origin),
		Items:            stage.ExpandItems(itemGroups),
		CoLocationGroups: r.CoLocationGroups,
		Origin:           origin,
	}
}

// FromSolveResult converts a solver.SolveResult into the JSON response shape.
func FromSolveResult(result solver.SolveResult) SolveResponse {
	resp := SolveResponse{
		Containers: make([]ContainerResponse, len(result.Containers)),
		Unused:     make([]PlacedItemResponse, len(result.Unused)),
	}
	for i, c := range result.Containers {
		resp.Containers[i] = ContainerResponse{
			ID:           c.ID,
			TypeID:       c.TypeID,
			DoorPosition: string(c.DoorPosition),
			Items:        itemsToResponse(c.Items),
		}
	}
	for i, it := range result.Unused {
		resp.Unused[i] = itemToResponse(it)
	}
	return resp
}

func itemsToResponse(items []loadmodel.Item) []PlacedItemResponse {
	out := make([]PlacedItemResponse, len(items))
	for i, it := range items {
		out[i] = itemToResponse(it)
	}
	return out
}

func itemToResponse(it loadmodel.Item) PlacedItemResponse {
	dx, dy, dz := it.RotatedDims(it.Rotation)
	return PlacedItemResponse{
		ID:             it.ID,
		OrderID:        it.OrderID,
		ItemTypeID:     it.ItemTypeID,
		X:              it.Position.X,
		Y:              it.Position.Y,
		Z:              it.Position.Z,
		Rotation:       it.Rotation,
		Layer:          it.Layer,
		Width:          dx,
		Length:         dy,
		Height:         dz,
		Weight:         it.Weight,
		PickupPriority: it.PickupPriority,
	}
}

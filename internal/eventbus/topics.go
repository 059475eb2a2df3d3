package eventbus

// Topic names published by the coordinator: tile_assembled through its
// assembler, render_complete by the server once the raster is complete.
const (
	TopicTileAssembled  = "tile_assembled"
	TopicRenderComplete = "render_complete"
)

// TileAssembledPayload is the Payload of a TopicTileAssembled event.
type TileAssembledPayload struct {
	JobID     string
	TileIndex int
}

// RenderCompletePayload is the Payload of a TopicRenderComplete event.
type RenderCompletePayload struct {
	JobID string
}

package services

// CanModify reports whether actingID may mutate a resource owned by ownerID.
func CanModify(actingID, ownerID string) bool {
	return actingID != "" && actingID == ownerID
}

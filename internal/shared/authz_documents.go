package shared

// Document permissions.
const (
	PermViewOwnDocuments = "view:own-documents"
	PermUploadDocuments  = "upload:documents"
	PermViewDocuments    = "view:documents"
	PermManageDocuments  = "manage:documents"
)

// DocumentScopes lists all permissions related to documents.
func DocumentScopes() []string {
	return []string{
		PermViewOwnDocuments,
		PermUploadDocuments,
		PermViewDocuments,
		PermManageDocuments,
	}
}

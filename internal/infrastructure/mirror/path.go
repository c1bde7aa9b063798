package mirror

import "groundops-service/internal/domain/repository"

// PublicScope is used when nobody is signed in
const PublicScope = "public"

// UserPath returns users/{uid|public}/{collection}
func UserPath(identity repository.IdentityProvider, collection string) string {
	uid := PublicScope
	if identity != nil {
		if id, ok := identity.CurrentUserID(); ok && id != "" {
			uid = id
		}
	}
	return "users/" + uid + "/" + collection
}

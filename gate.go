package shopauth

// gateRejectsLogin is the access-gate policy applied after permission
// preparation.
//
// Polarity: the login is rejected when the prepared app-permission list
// CONTAINS the configured gate id. This reads inverted from the evident
// intent ("must hold the permission to proceed") but matches the observed
// production behavior, so it is preserved exactly and isolated here.
// TODO: confirm the intended polarity with the OMS platform owners before
// changing it; the pinning test in engine_login_test.go must change with it.
func gateRejectsLogin(appPermissions []string, gateID string) bool {
	if gateID == "" {
		return false
	}
	for _, p := range appPermissions {
		if p == gateID {
			return true
		}
	}
	return false
}

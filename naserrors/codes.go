package naserrors

// Server error codes are numeric and mostly global; a few families overload
// their own ranges. Only documented codes are given meanings here; anything
// else falls through to the generic description-less error so undocumented
// codes are never guessed at.

// apiAuth is the only endpoint family with its own code table.
const apiAuth = "SYNO.API.Auth"

// globalCodes apply to every endpoint.
var globalCodes = map[int]string{
	100: "unknown error",
	101: "invalid parameter",
	102: "no such API",
	103: "no such method",
	104: "unsupported version",
	105: "insufficient privilege",
	106: "session timeout",
	107: "session interrupted by duplicate login",
	119: "session id not found",
}

// authCodes apply to the authentication endpoint family on top of the global set.
var authCodes = map[int]string{
	400: "invalid account or password",
	401: "account disabled",
	402: "permission denied",
	403: "one-time code required",
	404: "one-time code incorrect",
	406: "one-time code enforced",
	407: "blocked source address",
	408: "password expired",
	409: "password must be changed",
	410: "account locked",
}

func describe(api string, code int) string {
	if api == apiAuth {
		if msg, ok := authCodes[code]; ok {
			return msg
		}
	}
	return globalCodes[code]
}

// Describe returns the documented meaning of code for the endpoint family of
// api, or "" when the code is undocumented.
func Describe(api string, code int) string {
	return describe(api, code)
}

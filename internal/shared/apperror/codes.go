package apperror

// Cross-domain reason codes. Domain packages define their own prefixes
// (BUS, ASM, REV, FAV, DIR) next to their models.
const (
	CodeInternal        = "SYS001"
	CodeInvalidID       = "SYS002"
	CodeInvalidBody     = "SYS003"
	CodeRateLimited     = "SYS004"
	CodeInvalidQuery    = "SYS005"
	CodeUnauthenticated = "AUTH001"
	CodeInvalidToken    = "AUTH002"
	CodeForbidden       = "AUTH003"
)

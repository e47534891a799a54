package rbac

// Default policy. Students own the attempt lifecycle; admins manage exam
// content and can read any attempt.
var RolePermissions = map[string][]string{
	"student": {
		"exam:view",
		"attempt:create",
		"attempt:answer",
		"attempt:submit",
		"attempt:view-own",
		"audio:play",
	},
	"admin": {
		"*",
	},
}

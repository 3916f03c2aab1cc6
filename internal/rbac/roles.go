package rbac

import "itembuildup/internal/users"

// AdminAccountTypes may manage other users.
var AdminAccountTypes = []users.AccountType{users.AccountSuperAdmin, users.AccountAdmin}

func IsSuperAdmin(t users.AccountType) bool { return t == users.AccountSuperAdmin }

func IsAdmin(t users.AccountType) bool { return t == users.AccountSuperAdmin || t == users.AccountAdmin }

package security

import (
	"fmt"

	"document-approval-server/internal/model"
	"document-approval-server/internal/util"

	"github.com/casbin/casbin/v2"
	casbinmodel "github.com/casbin/casbin/v2/model"
)

// owner -> только свои документы, any -> любые
const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, act, scope

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub.Role == p.sub && r.act == p.act && (p.scope == "any" || r.sub.UUID == r.obj.OwnerUUID)
`

var defaultPolicies = [][]string{
	{string(model.RoleUser), string(model.ActionReadDocument), "owner"},
	{string(model.RoleUser), string(model.ActionRequestDelete), "owner"},
	{string(model.RoleUser), string(model.ActionRequestReplace), "owner"},

	{string(model.RoleAdmin), string(model.ActionReadDocument), "any"},
	{string(model.RoleAdmin), string(model.ActionListDocuments), "any"},
	{string(model.RoleAdmin), string(model.ActionRequestDelete), "any"},
	{string(model.RoleAdmin), string(model.ActionRequestReplace), "any"},
	{string(model.RoleAdmin), string(model.ActionListPending), "any"},
	{string(model.RoleAdmin), string(model.ActionResolve), "any"},
}

// subject и object : casbin сравнивает поля через reflect, поэтому только строки
type subject struct {
	UUID string
	Role string
}

type object struct {
	OwnerUUID string
}

type CasbinAuthorizer struct {
	enforcer *casbin.Enforcer
}

func NewCasbinAuthorizer() (*CasbinAuthorizer, error) {
	m, err := casbinmodel.NewModelFromString(rbacModel)
	if err != nil {
		return nil, util.LogError("[Authorizer] ошибка разбора модели доступа", err)
	}

	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, util.LogError("[Authorizer] ошибка создания enforcer", err)
	}

	if _, err := enforcer.AddPolicies(defaultPolicies); err != nil {
		return nil, util.LogError("[Authorizer] ошибка загрузки политик", err)
	}

	return &CasbinAuthorizer{enforcer: enforcer}, nil
}

// Authorize : ownerUUID пустой для операций без конкретного документа
func (a *CasbinAuthorizer) Authorize(actor model.Actor, action model.Action, ownerUUID string) error {
	if actor.UUID == "" {
		return util.ErrUnauthorized
	}

	allowed, err := a.enforcer.Enforce(
		subject{UUID: actor.UUID, Role: string(actor.Role)},
		object{OwnerUUID: ownerUUID},
		string(action),
	)
	if err != nil {
		return util.LogError("[Authorizer] ошибка проверки прав", err)
	}
	if !allowed {
		return fmt.Errorf("%s для роли %s: %w", action, actor.Role, util.ErrForbidden)
	}
	return nil
}

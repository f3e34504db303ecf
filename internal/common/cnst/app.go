package cnst

const (
	AppName       = "hireloop"
	ApiServerYaml = "apiserver.yaml"
)

// Context keys shared by the apiserver middleware and handlers
const (
	CtxKeyClaims = "claims"
	CtxKeyScope  = "tenant_scope"
	CtxKeyStore  = "tenant_store"
)

package model

// ComponentDescriptor 描述组件库中的一个组件。进程启动时定义，之后不再修改。
type ComponentDescriptor struct {
	Name          string            `json:"name"`
	Description   string            `json:"description"`
	Props         map[string]string `json:"props"`
	ImportPath    string            `json:"importPath"`
	SubComponents []string          `json:"subComponents,omitempty"`
}

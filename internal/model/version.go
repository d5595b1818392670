package model

// ExcerptLength 是列表中代码摘要的字符数。
const ExcerptLength = 140

// Version 对应 versions 表，一行代表一次被接受的生成结果。
// 行创建后不可修改、不可删除。
type Version struct {
	ID          uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	Code        string `gorm:"type:text;not null" json:"code"`
	CreatedAt   int64  `gorm:"column:created_at;not null;autoCreateTime:milli" json:"createdAt"` // epoch 毫秒
	CodeExcerpt string `gorm:"-" json:"codeExcerpt"`
}

// TableName 指定了此模型在数据库中对应的表名。
func (Version) TableName() string {
	return "versions"
}

// VersionMeta 是列表接口返回的精简版本信息，不包含完整代码。
type VersionMeta struct {
	ID          uint64 `json:"id"`
	CreatedAt   int64  `json:"createdAt"`
	CodeExcerpt string `gorm:"column:code_excerpt" json:"codeExcerpt"`
}

// Excerpt 返回代码的前 ExcerptLength 个字符（按 rune 计算）。
func Excerpt(code string) string {
	n := 0
	for i := range code {
		if n == ExcerptLength {
			return code[:i]
		}
		n++
	}
	return code
}

// WithExcerpt 填充派生字段 CodeExcerpt。
func (v *Version) WithExcerpt() *Version {
	v.CodeExcerpt = Excerpt(v.Code)
	return v
}

// Meta 把完整记录裁剪成列表项。
func (v Version) Meta() VersionMeta {
	return VersionMeta{ID: v.ID, CreatedAt: v.CreatedAt, CodeExcerpt: Excerpt(v.Code)}
}

package dtos

import (
	"github.com/iota-uz/hcm-console/pkg/backend"
)

type ConnectDTO struct {
	InstanceURL string `form:"instanceUrl"`
	Username    string `form:"username"`
	Password    string `form:"password"`
}

func (d *ConnectDTO) ToConfig() backend.ConnectionConfig {
	return backend.ConnectionConfig{
		InstanceURL: d.InstanceURL,
		Username:    d.Username,
		Password:    d.Password,
	}
}

type DismissDTO struct {
	ID string `form:"id"`
}

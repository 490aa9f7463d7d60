package main

import (
	"github.com/tricitytutors/backend/core"
)

func (cli *commandLine) resetPassword(email, pwd string) error {
	usr, err := cli.usrSvc.GetByEmail(core.CleanString(email, true /* lower */))
	if err != nil {
		return err
	}
	return cli.usrSvc.ResetPassword(usr, pwd)
}

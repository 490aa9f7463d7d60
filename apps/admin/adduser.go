package main

import (
	"github.com/tricitytutors/backend/core"
	"github.com/tricitytutors/backend/core/user"
)

// addUser creates a user.User, or resets the password of an existing one.
func (cli *commandLine) addUser(email, name, role, pwd string) error {
	email = core.CleanString(email, true /* lower */)

	usr, err := cli.usrSvc.GetByEmail(email)
	if err != nil {
		if err != user.ErrNotFound {
			return err
		}
		_, err = cli.usrSvc.Create(user.NewUser{
			Email:    email,
			Password: pwd,
			Role:     role,
			Name:     core.CleanString(name),
		})
		return err
	}
	return cli.usrSvc.ResetPassword(usr, pwd)
}

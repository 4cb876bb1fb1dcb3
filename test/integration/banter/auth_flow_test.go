// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Banter Contributors

//go:build integration

package banter_test

import (
	"github.com/oklog/ulid/v2"
	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/banterchat/banter/internal/auth"
)

var _ = Describe("Auth flow", func() {
	BeforeEach(func() {
		Expect(truncateTables(env.ctx, env.pool)).To(Succeed())
	})

	signupParams := func(username string) auth.SignupParams {
		return auth.SignupParams{
			FullName:        "Alice A",
			Username:        username,
			Password:        "secret1",
			ConfirmPassword: "secret1",
			Gender:          "female",
		}
	}

	Describe("signup", func() {
		It("persists the user and issues a working token", func() {
			user, token, err := env.Auth.Signup(env.ctx, signupParams("alice"))
			Expect(err).NotTo(HaveOccurred())
			Expect(token).NotTo(BeEmpty())
			Expect(user.ProfilePic).To(Equal("https://avatar.iran.liara.run/public/girl?username=alice"))

			stored, err := env.Users.GetByUsername(env.ctx, "alice")
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.ID).To(Equal(user.ID))
			Expect(stored.PasswordHash).NotTo(Equal("secret1"))

			authenticated, err := env.Auth.Authenticate(env.ctx, token)
			Expect(err).NotTo(HaveOccurred())
			Expect(authenticated.ID).To(Equal(user.ID))
		})

		It("rejects a duplicate username via the database constraint", func() {
			_, _, err := env.Auth.Signup(env.ctx, signupParams("alice"))
			Expect(err).NotTo(HaveOccurred())

			_, _, err = env.Auth.Signup(env.ctx, signupParams("alice"))
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("Username already exists"))

			users, err := env.Users.List(env.ctx, ulid.Make())
			Expect(err).NotTo(HaveOccurred())
			Expect(users).To(HaveLen(1))
		})
	})

	Describe("login", func() {
		It("round-trips credentials created by signup", func() {
			created, _, err := env.Auth.Signup(env.ctx, signupParams("alice"))
			Expect(err).NotTo(HaveOccurred())

			user, token, err := env.Auth.Login(env.ctx, "alice", "secret1")
			Expect(err).NotTo(HaveOccurred())
			Expect(token).NotTo(BeEmpty())
			Expect(user.ID).To(Equal(created.ID))
			Expect(user.FullName).To(Equal("Alice A"))
		})

		It("returns the same error for unknown users and wrong passwords", func() {
			_, _, err := env.Auth.Signup(env.ctx, signupParams("alice"))
			Expect(err).NotTo(HaveOccurred())

			_, _, wrongPassErr := env.Auth.Login(env.ctx, "alice", "wrong")
			_, _, noUserErr := env.Auth.Login(env.ctx, "ghost", "x")

			Expect(wrongPassErr).To(HaveOccurred())
			Expect(noUserErr).To(HaveOccurred())
			Expect(wrongPassErr.Error()).To(Equal(noUserErr.Error()))
		})
	})

	Describe("ListOthers", func() {
		It("excludes the requester", func() {
			alice, _, err := env.Auth.Signup(env.ctx, signupParams("alice"))
			Expect(err).NotTo(HaveOccurred())
			_, _, err = env.Auth.Signup(env.ctx, signupParams("bob"))
			Expect(err).NotTo(HaveOccurred())

			profiles, err := env.Auth.ListOthers(env.ctx, alice.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(profiles).To(HaveLen(1))
			Expect(profiles[0].Username).To(Equal("bob"))
		})
	})
})

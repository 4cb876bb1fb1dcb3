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

var _ = Describe("Chat flow", func() {
	var alice, bob *auth.User

	BeforeEach(func() {
		Expect(truncateTables(env.ctx, env.pool)).To(Succeed())

		var err error
		alice, _, err = env.Auth.Signup(env.ctx, auth.SignupParams{
			FullName:        "Alice A",
			Username:        "alice",
			Password:        "secret1",
			ConfirmPassword: "secret1",
			Gender:          "female",
		})
		Expect(err).NotTo(HaveOccurred())

		bob, _, err = env.Auth.Signup(env.ctx, auth.SignupParams{
			FullName:        "Bob B",
			Username:        "bob",
			Password:        "secret2",
			ConfirmPassword: "secret2",
			Gender:          "male",
		})
		Expect(err).NotTo(HaveOccurred())
	})

	It("persists a message and returns it in both conversation views", func() {
		msg, err := env.Chat.Send(env.ctx, alice.ID, bob.ID, "hey bob")
		Expect(err).NotTo(HaveOccurred())
		Expect(msg.Body).To(Equal("hey bob"))

		fromAlice, err := env.Chat.Conversation(env.ctx, alice.ID, bob.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(fromAlice).To(HaveLen(1))
		Expect(fromAlice[0].Body).To(Equal("hey bob"))

		fromBob, err := env.Chat.Conversation(env.ctx, bob.ID, alice.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(fromBob).To(HaveLen(1))
	})

	It("orders an exchange by message id", func() {
		_, err := env.Chat.Send(env.ctx, alice.ID, bob.ID, "first")
		Expect(err).NotTo(HaveOccurred())
		_, err = env.Chat.Send(env.ctx, bob.ID, alice.ID, "second")
		Expect(err).NotTo(HaveOccurred())
		_, err = env.Chat.Send(env.ctx, alice.ID, bob.ID, "third")
		Expect(err).NotTo(HaveOccurred())

		views, err := env.Chat.Conversation(env.ctx, alice.ID, bob.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(views).To(HaveLen(3))
		Expect(views[0].Body).To(Equal("first"))
		Expect(views[1].Body).To(Equal("second"))
		Expect(views[2].Body).To(Equal("third"))
	})

	It("rejects messages to unknown receivers", func() {
		_, err := env.Chat.Send(env.ctx, alice.ID, ulid.Make(), "anyone there")
		Expect(err).To(HaveOccurred())
	})

	It("keeps unrelated conversations separate", func() {
		carol, _, err := env.Auth.Signup(env.ctx, auth.SignupParams{
			FullName:        "Carol C",
			Username:        "carol",
			Password:        "secret3",
			ConfirmPassword: "secret3",
			Gender:          "female",
		})
		Expect(err).NotTo(HaveOccurred())

		_, err = env.Chat.Send(env.ctx, alice.ID, bob.ID, "for bob")
		Expect(err).NotTo(HaveOccurred())
		_, err = env.Chat.Send(env.ctx, alice.ID, carol.ID, "for carol")
		Expect(err).NotTo(HaveOccurred())

		views, err := env.Chat.Conversation(env.ctx, bob.ID, alice.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(views).To(HaveLen(1))
		Expect(views[0].Body).To(Equal("for bob"))
	})
})
